// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gioui.org/paragraph/font"
)

var (
	red  = color.NRGBA{R: 0xff, A: 0xff}
	blue = color.NRGBA{B: 0xff, A: 0xff}
)

func TestStyleSpans(t *testing.T) {
	b := NewBuilder(ParagraphStyle{TextStyle: TextStyle{Size: 10, Color: red}}, testFonts())
	b.AddText("ab")
	b.PushStyle(TextStyle{Weight: font.Bold})
	b.AddText("cd")
	b.PushStyle(TextStyle{Color: blue})
	b.AddText("e")
	b.Pop()
	b.AddText("f")
	b.Pop()
	// Popping the default style is ignored.
	b.Pop()
	b.AddText("g")
	p := b.Build()

	spans := p.Spans()
	type span struct {
		start, end int
		weight     font.Weight
		color      color.NRGBA
	}
	var got []span
	for i := 0; i < spans.Len(); i++ {
		s := spans.Span(i)
		got = append(got, span{s.Start, s.End, s.Style.Weight, s.Style.Color})
	}
	want := []span{
		{0, 2, font.Normal, red},
		{2, 4, font.Bold, red},
		{4, 5, font.Bold, blue},
		{5, 6, font.Bold, red},
		{6, 7, font.Normal, red},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(span{})); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	for pos, want := range map[int]int{0: 0, 1: 0, 2: 1, 4: 2, 6: 4, 7: 4} {
		if got := spans.SpanAt(pos); got != want {
			t.Errorf("SpanAt(%d) = %d, want %d", pos, got, want)
		}
	}
	if p.Text() != "abcdefg" {
		t.Errorf("text = %q", p.Text())
	}
}

func TestSpansForRange(t *testing.T) {
	b := NewBuilder(testStyle(), testFonts())
	b.AddText("abc")
	b.PushStyle(TextStyle{Size: 30})
	b.AddText("def")
	p := b.Build()
	spans := p.Spans()
	got := spans.SpansForRange(1, 5)
	if len(got) != 2 {
		t.Fatalf("got %d spans, want 2", len(got))
	}
	if got[0].Start != 1 || got[0].End != 3 || got[1].Start != 3 || got[1].End != 5 {
		t.Errorf("unexpected clipped spans %+v", got)
	}
	if got[1].Style.Size != 30 {
		t.Errorf("second span size = %v, want 30", got[1].Style.Size)
	}
	for _, r := range [][2]int{{2, 2}, {4, 1}, {6, 9}, {-3, 0}} {
		if got := spans.SpansForRange(r[0], r[1]); got != nil {
			t.Errorf("SpansForRange(%d, %d) = %+v, want nil", r[0], r[1], got)
		}
	}
}

func TestLateBoundDefaultStyle(t *testing.T) {
	b := NewBuilder(ParagraphStyle{TextStyle: TextStyle{Size: 10}}, testFonts())
	b.PushStyle(TextStyle{Color: blue})
	b.AddText("a")
	b.Pop()
	b.AddText("b")
	b.SetParagraphStyle(ParagraphStyle{TextStyle: TextStyle{Size: 24, Color: red}})
	p := b.Build()
	spans := p.Spans()
	first, second := spans.Span(0).Style, spans.Span(1).Style
	if first.Size != 24 || first.Color != blue {
		t.Errorf("pushed span resolved to size %v color %v", first.Size, first.Color)
	}
	if second.Size != 24 || second.Color != red {
		t.Errorf("default span resolved to size %v color %v", second.Size, second.Color)
	}
}

func TestStyleDefaults(t *testing.T) {
	b := NewBuilder(ParagraphStyle{}, testFonts())
	if s := b.PeekStyle(); s.Size != defaultSize || s.Color != defaultColor || s.DecorationThickness != 1 {
		t.Errorf("unexpected default style %+v", s)
	}
	b.PushStyle(TextStyle{Color: red, Decoration: Underline})
	s := b.PeekStyle()
	if s.DecorationColor != red {
		t.Errorf("decoration color %v, want the text color", s.DecorationColor)
	}
	b.Reset()
	if s := b.PeekStyle(); s.Color != defaultColor {
		t.Errorf("reset builder peeks %v", s.Color)
	}
}

func TestPlaceholderSpans(t *testing.T) {
	b := NewBuilder(testStyle(), testFonts())
	b.AddText("a")
	b.AddPlaceholder(PlaceholderStyle{Width: 5, Height: 5})
	b.AddText("b")
	b.AddPlaceholder(PlaceholderStyle{Width: 7, Height: 7})
	p := b.Build()
	spans := p.Spans()
	if spans.Placeholders() != 2 {
		t.Fatalf("got %d placeholders, want 2", spans.Placeholders())
	}
	if got := spans.Placeholder(1).Width; got != 7 {
		t.Errorf("second placeholder width = %v", got)
	}
	var kinds []int
	for i := 0; i < spans.Len(); i++ {
		kinds = append(kinds, spans.Span(i).Placeholder)
	}
	if diff := cmp.Diff([]int{-1, 0, -1, 1}, kinds); diff != "" {
		t.Errorf("span kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceTabs(t *testing.T) {
	style := testStyle()
	style.ReplaceTabs = true
	p := buildParagraph(style, "a\tb")
	if p.Text() != "a b" {
		t.Errorf("text = %q, want tabs replaced", p.Text())
	}
}

func TestStyleHashes(t *testing.T) {
	cache := NewLayoutCache(0)
	hash := func(style TextStyle, txt string) (uint64, uint64) {
		b := NewBuilder(testStyle(), testFonts(), WithCache(cache))
		b.PushStyle(style)
		b.AddText(txt)
		p := b.Build()
		return p.textHash, p.styleHash
	}
	t1, s1 := hash(TextStyle{Color: red}, "abc")
	t2, s2 := hash(TextStyle{Color: red}, "abc")
	if t1 != t2 || s1 != s2 {
		t.Error("identical paragraphs hash differently")
	}
	t3, s3 := hash(TextStyle{Color: blue}, "abc")
	if t3 != t1 || s3 == s1 {
		t.Error("style change not reflected in the style hash only")
	}
	t4, _ := hash(TextStyle{Color: red}, "abd")
	if t4 == t1 {
		t.Error("text change not reflected in the text hash")
	}
}
