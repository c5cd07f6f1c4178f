// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"math"

	"golang.org/x/exp/slog"
	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/f32"
)

// maxLayoutWidth bounds finite layout widths to keep line arithmetic
// within 26.6 fixed point range.
const maxLayoutWidth = 1 << 24

// Paragraph is styled text that can be laid out at a width, queried and
// painted. Paragraphs are created by a Builder. A Paragraph is not safe
// for concurrent use.
type Paragraph struct {
	style  ParagraphStyle
	text   []rune
	spans  StyleSpanTable
	fonts  FontCollection
	shaper ShapingEngine
	cache  *LayoutCache
	logger *slog.Logger

	textHash, styleHash uint64

	// st is the shaped text, valid while the font collection version
	// equals stVersion.
	st        *shapedText
	stVersion uint64
	res       *LayoutResult
	width     float32
}

func (p *Paragraph) newShaper() *shaper {
	return &shaper{
		fonts:  p.fonts,
		engine: p.shaper,
		logger: p.logger,
	}
}

// shaped returns the shaped text, shaping it if the fonts changed since
// the last call.
func (p *Paragraph) shaped() *shapedText {
	if v := p.fonts.Version(); p.st == nil || p.stVersion != v {
		p.st = p.newShaper().shape(p.text, &p.spans, p.style)
		p.stVersion = v
	}
	return p.st
}

// Layout breaks the paragraph into lines no wider than width. A negative
// or NaN width is treated as zero; positive infinity disables wrapping.
// Laying out again reuses the shaped text unless the font collection
// changed.
func (p *Paragraph) Layout(width float32) {
	if math.IsNaN(float64(width)) || width < 0 {
		width = 0
	}
	unbounded := math.IsInf(float64(width), 1)
	var maxWidth fixed.Int26_6
	if !unbounded {
		maxWidth = f32.ToFixed(min(width, maxLayoutWidth))
	}
	build := func() *LayoutResult {
		return p.newShaper().layout(p.shaped(), p.style, maxWidth, unbounded)
	}
	if p.cache == nil {
		p.res = build()
	} else {
		hits, _ := p.cache.Stats()
		p.res = p.cache.GetOrBuild(p.cache.layoutKey(p, width), build)
		if h, _ := p.cache.Stats(); h > hits {
			p.logger.Debug("layout cache hit", "width", width)
			if p.st == nil {
				p.st, p.stVersion = p.res.st, p.fonts.Version()
			}
		}
	}
	p.width = width
}

// Text returns the paragraph text, with placeholders as U+FFFC.
func (p *Paragraph) Text() string {
	return string(p.text)
}

// Style returns the paragraph style.
func (p *Paragraph) Style() ParagraphStyle {
	return p.style
}

// Spans returns the style spans of the paragraph.
func (p *Paragraph) Spans() *StyleSpanTable {
	return &p.spans
}

// laidOut reports whether Layout has been called.
func (p *Paragraph) laidOut() bool {
	return p.res != nil
}

// Height returns the height of the laid out paragraph.
func (p *Paragraph) Height() float32 {
	if !p.laidOut() {
		return 0
	}
	return f32.FromFixed(p.res.height)
}

// MaxWidth returns the width passed to Layout. For unconstrained layouts
// it returns the longest line.
func (p *Paragraph) MaxWidth() float32 {
	if !p.laidOut() {
		return 0
	}
	if p.res.unbounded {
		return f32.FromFixed(p.res.longest)
	}
	return p.width
}

// LongestLine returns the width of the widest line, excluding trailing
// whitespace.
func (p *Paragraph) LongestLine() float32 {
	if !p.laidOut() {
		return 0
	}
	return f32.FromFixed(p.res.longest)
}

// MinIntrinsicWidth returns the width of the widest unbreakable sequence.
func (p *Paragraph) MinIntrinsicWidth() float32 {
	return f32.FromFixed(p.shaped().minIntrinsic)
}

// MaxIntrinsicWidth returns the width the paragraph takes without
// wrapping.
func (p *Paragraph) MaxIntrinsicWidth() float32 {
	return f32.FromFixed(p.shaped().maxIntrinsic)
}

// AlphabeticBaseline returns the baseline of the first line.
func (p *Paragraph) AlphabeticBaseline() float32 {
	if !p.laidOut() || len(p.res.lines) == 0 {
		return 0
	}
	return f32.FromFixed(p.res.lines[0].baseline)
}

// IdeographicBaseline returns the bottom of the text of the first line.
func (p *Paragraph) IdeographicBaseline() float32 {
	if !p.laidOut() || len(p.res.lines) == 0 {
		return 0
	}
	l := &p.res.lines[0]
	return f32.FromFixed(l.baseline + l.textDescent)
}

// DidExceedMaxLines reports whether content was dropped because of the
// line limit.
func (p *Paragraph) DidExceedMaxLines() bool {
	return p.laidOut() && p.res.exceeded
}

// LineCount returns the number of lines.
func (p *Paragraph) LineCount() int {
	if !p.laidOut() {
		return 0
	}
	return len(p.res.lines)
}

// GetRectsForRange returns the boxes covering the runes [start, end), one
// per contiguous visual piece. The range is widened to whole grapheme
// clusters.
func (p *Paragraph) GetRectsForRange(start, end int, hs RectHeightStyle, ws RectWidthStyle) []TextBox {
	if !p.laidOut() {
		return nil
	}
	return p.res.rectsForRange(start, end, hs, ws)
}

// GetRectsForPlaceholders returns the box of every placeholder on a line,
// in visual order.
func (p *Paragraph) GetRectsForPlaceholders() []TextBox {
	if !p.laidOut() {
		return nil
	}
	return p.res.placeholderRects()
}

// GetGlyphPositionAtCoordinate returns the text position closest to the
// point (x, y).
func (p *Paragraph) GetGlyphPositionAtCoordinate(x, y float32) PositionWithAffinity {
	if !p.laidOut() {
		return PositionWithAffinity{Affinity: Downstream}
	}
	return p.res.glyphPositionAt(f32.ToFixed(x), f32.ToFixed(y))
}

// GetWordBoundary returns the word containing pos. Positions between
// words return the run of non-word text around them.
func (p *Paragraph) GetWordBoundary(pos int) Range {
	st := p.shaped()
	if pos < 0 || pos > len(st.text) {
		return Range{}
	}
	res := LayoutResult{st: st}
	return res.wordBoundary(pos)
}

// GetLineMetrics returns the metrics of every line.
func (p *Paragraph) GetLineMetrics() []LineMetrics {
	if !p.laidOut() {
		return nil
	}
	metrics := make([]LineMetrics, len(p.res.lines))
	for i := range metrics {
		metrics[i] = p.res.lineMetrics(i)
	}
	return metrics
}

// GetLineMetricsAt returns the metrics of line i.
func (p *Paragraph) GetLineMetricsAt(i int) (LineMetrics, bool) {
	if !p.laidOut() || i < 0 || i >= len(p.res.lines) {
		return LineMetrics{}, false
	}
	return p.res.lineMetrics(i), true
}

// GetLineNumberAt returns the line containing rune position pos, or -1 if
// no line does.
func (p *Paragraph) GetLineNumberAt(pos int) int {
	if !p.laidOut() {
		return -1
	}
	return p.res.lineNumberAt(pos)
}

// Introspection is a read-only snapshot of a paragraph layout.
type Introspection struct {
	Lines    []LineInfo
	Runs     []RunInfo
	Clusters []ClusterInfo
}

// LineInfo describes a line. Start, End and ContentEnd are cluster
// indices.
type LineInfo struct {
	Start, End, ContentEnd int
	HardBreak              bool
	Ellipsized             bool
	Width                  float32
	Baseline               float32
	// Segments are in visual order.
	Segments []SegmentInfo
}

// SegmentInfo describes the part of a run on a line. Run is -1 for the
// ellipsis.
type SegmentInfo struct {
	Run        int
	Start, End int
	Level      uint8
	X, Width   float32
}

// RunInfo describes a shaped run. Start and End are cluster indices.
type RunInfo struct {
	Start, End  int
	Level       uint8
	Span        int
	Script      string
	Size        float32
	Glyphs      int
	Placeholder int
}

// ClusterInfo describes a grapheme cluster. Start and End are rune
// positions.
type ClusterInfo struct {
	Start, End  int
	Run         int
	Width       float32
	SoftBreak   bool
	HardBreak   bool
	Whitespace  bool
	Placeholder bool
	Tofu        bool
}

// Inspect returns a snapshot of the layout.
func (p *Paragraph) Inspect() Introspection {
	var in Introspection
	st := p.shaped()
	for _, c := range st.clusters {
		in.Clusters = append(in.Clusters, ClusterInfo{
			Start:       c.start,
			End:         c.end,
			Run:         c.run,
			Width:       f32.FromFixed(c.width),
			SoftBreak:   c.is(flagSoftBreak),
			HardBreak:   c.is(flagHardBreak),
			Whitespace:  c.is(flagWhitespace),
			Placeholder: c.is(flagPlaceholder),
			Tofu:        c.is(flagTofu),
		})
	}
	for _, r := range st.runs {
		in.Runs = append(in.Runs, RunInfo{
			Start:       r.start,
			End:         r.end,
			Level:       r.level,
			Span:        r.span,
			Script:      r.script.String(),
			Size:        f32.FromFixed(r.size),
			Glyphs:      len(r.glyphs),
			Placeholder: r.placeholder,
		})
	}
	if !p.laidOut() {
		return in
	}
	for _, l := range p.res.lines {
		li := LineInfo{
			Start:      l.start,
			End:        l.end,
			ContentEnd: l.contentEnd,
			HardBreak:  l.hardBreak,
			Ellipsized: l.ellipsis != nil,
			Width:      f32.FromFixed(l.width),
			Baseline:   f32.FromFixed(l.baseline),
		}
		for _, sg := range l.segments {
			li.Segments = append(li.Segments, SegmentInfo{
				Run:   sg.run,
				Start: sg.start,
				End:   sg.end,
				Level: sg.level,
				X:     f32.FromFixed(l.x + sg.x),
				Width: f32.FromFixed(sg.width),
			})
		}
		in.Lines = append(in.Lines, li)
	}
	return in
}
