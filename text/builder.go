// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"hash/maphash"
	"io"

	"golang.org/x/exp/slog"
)

// Option configures a Builder.
type Option func(*Builder)

// WithCache shares a layout cache between paragraphs. Without it,
// paragraphs are laid out directly.
func WithCache(c *LayoutCache) Option {
	return func(b *Builder) {
		b.cache = c
	}
}

// WithShaper replaces the default HarfBuzz shaping engine.
func WithShaper(s ShapingEngine) Option {
	return func(b *Builder) {
		b.shaper = s
	}
}

// WithLogger sets the logger for diagnostics. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// Builder accumulates styled text and placeholders and builds a
// Paragraph. Styles are recorded as operations and resolved against the
// paragraph style when Build is called.
type Builder struct {
	style  ParagraphStyle
	fonts  FontCollection
	ops    []styleOp
	depth  int
	cache  *LayoutCache
	shaper ShapingEngine
	logger *slog.Logger
}

// NewBuilder returns a builder for paragraphs with the given style, using
// fonts from fonts.
func NewBuilder(style ParagraphStyle, fonts FontCollection, options ...Option) *Builder {
	b := &Builder{
		style: style,
		fonts: fonts,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.shaper == nil {
		b.shaper = new(HarfbuzzShaper)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b
}

// PushStyle opens a style scope. Text added until the matching Pop uses
// style, with unset fields inherited from the enclosing scope.
func (b *Builder) PushStyle(style TextStyle) {
	b.ops = append(b.ops, styleOp{kind: opPush, style: style})
	b.depth++
}

// Pop closes the innermost style scope. Popping the paragraph default
// style is a no-op.
func (b *Builder) Pop() {
	if b.depth == 0 {
		return
	}
	b.ops = append(b.ops, styleOp{kind: opPop})
	b.depth--
}

// AddText appends text in the current style.
func (b *Builder) AddText(s string) {
	b.ops = append(b.ops, styleOp{kind: opText, text: s})
}

// AddPlaceholder appends an inline placeholder. It occupies a single rune
// position in the text.
func (b *Builder) AddPlaceholder(p PlaceholderStyle) {
	b.ops = append(b.ops, styleOp{kind: opPlaceholder, placeholder: p})
}

// SetParagraphStyle replaces the paragraph style. Because styles are
// resolved at Build, the new default applies to text added before the
// call, for every attribute its scopes left unset.
func (b *Builder) SetParagraphStyle(style ParagraphStyle) {
	b.style = style
}

// PeekStyle returns the style that text added now would have if the
// paragraph were built with the current paragraph style.
func (b *Builder) PeekStyle() TextStyle {
	stack := []TextStyle{{}}
	for _, op := range b.ops {
		switch op.kind {
		case opPush:
			stack = append(stack, op.style.inherit(stack[len(stack)-1]))
		case opPop:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack[len(stack)-1].inherit(b.style.TextStyle).resolve()
}

// Build resolves the accumulated operations into a Paragraph. The builder
// keeps its state; call Reset to start a new paragraph.
func (b *Builder) Build() *Paragraph {
	spans, runes := foldOps(b.ops, b.style.TextStyle, b.style.ReplaceTabs)
	p := &Paragraph{
		style:  b.style,
		text:   runes,
		spans:  spans,
		fonts:  b.fonts,
		shaper: b.shaper,
		cache:  b.cache,
		logger: b.logger,
	}
	if b.cache != nil {
		p.textHash, p.styleHash = b.cache.hashContent(runes, &spans, b.style)
	}
	return p
}

// Reset discards all operations. The paragraph style is kept.
func (b *Builder) Reset() {
	b.ops = b.ops[:0]
	b.depth = 0
}

// hashContent computes the text and style hashes of a paragraph.
func hashContent(seed maphash.Seed, text []rune, spans *StyleSpanTable, style ParagraphStyle) (textHash, styleHash uint64) {
	var h maphash.Hash
	h.SetSeed(seed)
	w := styleHasher{h: &h}
	for _, r := range text {
		w.u32(uint32(r))
	}
	textHash = h.Sum64()
	h.Reset()
	w.paragraph(style)
	for _, s := range spans.spans {
		w.u32(uint32(s.Start))
		w.u32(uint32(s.End))
		w.u32(uint32(s.Placeholder))
		w.textStyle(s.Style)
	}
	for _, p := range spans.placeholders {
		w.placeholder(p)
	}
	styleHash = h.Sum64()
	return textHash, styleHash
}
