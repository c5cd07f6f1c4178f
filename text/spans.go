// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"fmt"
	"sort"
)

// objectReplacement stands in for a placeholder in the text buffer.
const objectReplacement = '\uFFFC'

// StyleSpan is a fully resolved style attached to the half-open rune
// range [Start, End).
type StyleSpan struct {
	Start, End int
	Style      TextStyle
	// Placeholder is the index of the placeholder this span represents,
	// or -1 for text.
	Placeholder int
}

// StyleSpanTable is the immutable result of folding builder operations. Its
// spans partition the text buffer in order, without gaps or overlaps.
type StyleSpanTable struct {
	spans        []StyleSpan
	placeholders []PlaceholderStyle
	length       int
}

type opKind uint8

const (
	opPush opKind = iota
	opPop
	opText
	opPlaceholder
)

// styleOp is a recorded builder operation.
type styleOp struct {
	kind        opKind
	style       TextStyle
	text        string
	placeholder PlaceholderStyle
}

// foldOps resolves ops against def into a span table and the text buffer.
// Every push opens a new scope; text added in the same scope without
// intervening pushes or pops extends the current span.
func foldOps(ops []styleOp, def TextStyle, replaceTabs bool) (StyleSpanTable, []rune) {
	var (
		t     StyleSpanTable
		text  []rune
		stack = []TextStyle{{}}
		scope = 0
		// spanScope is the scope of the last span; -1 forces a new span.
		spanScope = -1
	)
	base := def.resolve()
	for _, op := range ops {
		switch op.kind {
		case opPush:
			parent := stack[len(stack)-1]
			stack = append(stack, op.style.inherit(parent))
			scope++
			spanScope = -1
		case opPop:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
				scope++
				spanScope = -1
			}
		case opText:
			if op.text == "" {
				continue
			}
			start := len(text)
			for _, r := range op.text {
				if replaceTabs && r == '\t' {
					r = ' '
				}
				text = append(text, r)
			}
			if spanScope == scope {
				t.spans[len(t.spans)-1].End = len(text)
				continue
			}
			style := stack[len(stack)-1].inherit(def).resolve()
			t.spans = append(t.spans, StyleSpan{Start: start, End: len(text), Style: style, Placeholder: -1})
			spanScope = scope
		case opPlaceholder:
			start := len(text)
			text = append(text, objectReplacement)
			style := stack[len(stack)-1].inherit(def).resolve()
			t.spans = append(t.spans, StyleSpan{Start: start, End: len(text), Style: style, Placeholder: len(t.placeholders)})
			t.placeholders = append(t.placeholders, op.placeholder)
			spanScope = -1
		}
	}
	t.length = len(text)
	if len(t.spans) == 0 {
		t.spans = append(t.spans, StyleSpan{Style: base, Placeholder: -1})
	}
	t.check()
	return t, text
}

// check panics if the spans do not tile the text.
func (t *StyleSpanTable) check() {
	pos := 0
	for i, s := range t.spans {
		if s.Start != pos || (s.End <= s.Start && t.length > 0) {
			panic(fmt.Errorf("style span %d [%d,%d) does not continue at %d", i, s.Start, s.End, pos))
		}
		pos = s.End
	}
	if pos != t.length {
		panic(fmt.Errorf("style spans end at %d, text length %d", pos, t.length))
	}
}

// Len returns the number of spans.
func (t *StyleSpanTable) Len() int {
	return len(t.spans)
}

// Span returns the i'th span.
func (t *StyleSpanTable) Span(i int) StyleSpan {
	return t.spans[i]
}

// SpanAt returns the index of the span containing rune position pos.
// Positions at or past the end of the text map to the last span.
func (t *StyleSpanTable) SpanAt(pos int) int {
	i := sort.Search(len(t.spans), func(i int) bool {
		return t.spans[i].End > pos
	})
	if i == len(t.spans) {
		i = len(t.spans) - 1
	}
	return i
}

// SpansForRange returns the spans covering [start, end), clipped to the
// range. The result is contiguous and gapless; it is empty for empty or
// out of range inputs.
func (t *StyleSpanTable) SpansForRange(start, end int) []StyleSpan {
	start = max(start, 0)
	end = min(end, t.length)
	if start >= end {
		return nil
	}
	var out []StyleSpan
	for i := t.SpanAt(start); i < len(t.spans) && t.spans[i].Start < end; i++ {
		s := t.spans[i]
		s.Start = max(s.Start, start)
		s.End = min(s.End, end)
		out = append(out, s)
	}
	return out
}

// Placeholder returns the style of placeholder i.
func (t *StyleSpanTable) Placeholder(i int) PlaceholderStyle {
	return t.placeholders[i]
}

// Placeholders returns the number of placeholders.
func (t *StyleSpanTable) Placeholders() int {
	return len(t.placeholders)
}
