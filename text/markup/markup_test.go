// SPDX-License-Identifier: Unlicense OR MIT

package markup

import (
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font"
	"gioui.org/paragraph/text"
	"gioui.org/paragraph/unit"
)

const sample = `
// A justified paragraph.
paragraph align=justify maxlines=2 ellipsis="…" direction=rtl {
	style size=30 family="Go, 'Noto Sans'" color=#202020 {
		"World domination "
		style weight=bold decoration="underline line-through" { "is" }
	}
	placeholder width=32 height=32 align=middle
	" done"
}
`

func build(t *testing.T, src string) *text.Paragraph {
	t.Helper()
	doc, err := Parse("sample", src)
	if err != nil {
		t.Fatal(err)
	}
	b := text.NewBuilder(text.ParagraphStyle{}, text.NewCollection())
	if err := doc.Apply(b); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

func TestApply(t *testing.T) {
	p := build(t, sample)
	if got, want := p.Text(), "World domination is\uFFFC done"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	ps := p.Style()
	if ps.Align != text.Justify || ps.MaxLines != 2 || ps.Ellipsis != "…" || ps.Direction != text.RTL {
		t.Errorf("unexpected paragraph style %+v", ps)
	}
	spans := p.Spans()
	if spans.Len() != 4 {
		t.Fatalf("got %d spans, want 4", spans.Len())
	}
	gray := color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	outer := spans.Span(0).Style
	if outer.Size != 30 || outer.Color != gray {
		t.Errorf("outer span size %v color %v", outer.Size, outer.Color)
	}
	if diff := cmp.Diff([]font.Typeface{"Go", "Noto Sans"}, outer.Families); diff != "" {
		t.Errorf("families mismatch (-want +got):\n%s", diff)
	}
	bold := spans.Span(1)
	if bold.Start != 17 || bold.End != 19 {
		t.Errorf("bold span [%d,%d)", bold.Start, bold.End)
	}
	if bold.Style.Weight != font.Bold || bold.Style.Decoration != text.Underline|text.LineThrough || bold.Style.Size != 30 {
		t.Errorf("unexpected bold style %+v", bold.Style)
	}
	if spans.Placeholders() != 1 {
		t.Fatalf("got %d placeholders", spans.Placeholders())
	}
	want := text.PlaceholderStyle{Width: 32, Height: 32, Alignment: text.AlignMiddle}
	if got := spans.Placeholder(0); got != want {
		t.Errorf("placeholder %+v, want %+v", got, want)
	}
	if s := spans.Span(3).Style; s.Size == 30 {
		t.Error("style scope leaked past its block")
	}
}

func TestTextAttributes(t *testing.T) {
	p := build(t, `paragraph size=12 {
		style slant=italic weight=600 stretch=75 background=#ff000080 letter-spacing=1.5 word-spacing=-2
			height=1.25 decoration=overline decoration-style=wavy decoration-color=#0000ff
			decoration-thickness=2 shadow="1 2 3 #00ff00" locale=fr-CA { "x" }
	}`)
	got := p.Spans().Span(0).Style
	want := text.TextStyle{
		Size:                12,
		Style:               font.Italic,
		Weight:              font.SemiBold,
		Width:               font.Condensed,
		Color:               color.NRGBA{A: 0xff},
		Background:          color.NRGBA{R: 0xff, A: 0x80},
		Decoration:          text.Overline,
		DecorationStyle:     text.Wavy,
		DecorationColor:     color.NRGBA{B: 0xff, A: 0xff},
		DecorationThickness: 2,
		LetterSpacing:       1.5,
		WordSpacing:         -2,
		Height:              1.25,
		HeightOverride:      true,
		Shadows: []text.Shadow{{
			Color:      color.NRGBA{G: 0xff, A: 0xff},
			Offset:     f32.Pt(1, 2),
			BlurRadius: 3,
		}},
		Locale: "fr-CA",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("style mismatch (-want +got):\n%s", diff)
	}
}

func TestParagraphAttributes(t *testing.T) {
	p := build(t, `paragraph align=center height-behavior=disable-all replace-tabs=true { "a\tb" }`)
	ps := p.Style()
	if ps.Align != text.Center || ps.HeightBehavior != text.DisableAll || !ps.ReplaceTabs {
		t.Errorf("unexpected paragraph style %+v", ps)
	}
	if p.Text() != "a b" {
		t.Errorf("text = %q", p.Text())
	}
}

func TestPlaceholderBeforeStyle(t *testing.T) {
	p := build(t, `paragraph {
		placeholder width=5 height=6 baseline=ideographic baseline-offset=4
		style size=9 { "a" }
	}`)
	spans := p.Spans()
	want := text.PlaceholderStyle{Width: 5, Height: 6, Baseline: text.Ideographic, BaselineOffset: 4}
	if got := spans.Placeholder(0); got != want {
		t.Errorf("placeholder %+v, want %+v", got, want)
	}
	if s := spans.Span(1).Style; s.Size != 9 {
		t.Errorf("styled text size %v", s.Size)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name, src, err string
	}{
		{"syntax", `paragraph { "a" `, "markup:"},
		{"trailing", `paragraph {} paragraph {}`, "markup:"},
		{"unknown attribute", `paragraph font=x {}`, `unknown attribute "font"`},
		{"unknown placeholder attribute", `paragraph { placeholder size=3 }`, `unknown placeholder attribute "size"`},
		{"bad enum", `paragraph align=middle {}`, `invalid value "middle"`},
		{"bad number", `paragraph { style size=big { "a" } }`, "expected a number"},
		{"negative size", `paragraph size=-3 {}`, "expected a positive number"},
		{"fractional lines", `paragraph maxlines=1.5 {}`, "non-negative integer"},
		{"bad color", `paragraph color=red {}`, "expected a #rrggbb color"},
		{"bad weight", `paragraph weight=1000 {}`, "out of range"},
		{"bad family", `paragraph family="'Go" {}`, "family"},
		{"bad decoration", `paragraph decoration=blink {}`, `unknown decoration "blink"`},
		{"bad shadow", `paragraph shadow="1 2 #000000" {}`, "dx dy blur"},
		{"bad bool", `paragraph replace-tabs=yes {}`, "true or false"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse(tc.name, tc.src)
			if err == nil {
				b := text.NewBuilder(text.ParagraphStyle{}, text.NewCollection())
				err = doc.Apply(b)
			}
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.Contains(err.Error(), tc.err) {
				t.Errorf("error %q does not mention %q", err, tc.err)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	doc, err := Parse("doc.txt", "paragraph {\n  style bogus=1 { \"a\" }\n}")
	if err != nil {
		t.Fatal(err)
	}
	err = doc.Apply(text.NewBuilder(text.ParagraphStyle{}, text.NewCollection()))
	if err == nil || !strings.HasPrefix(err.Error(), "doc.txt:2:") {
		t.Errorf("error %v lacks the attribute position", err)
	}
}

func TestUnits(t *testing.T) {
	doc, err := Parse("units", `paragraph size=9pt letter-spacing=1sp {
		placeholder width=10dp height=5 baseline-offset=2dp
		style shadow="1dp 2 0 #000000" { "a" }
	}`)
	if err != nil {
		t.Fatal(err)
	}
	b := text.NewBuilder(text.ParagraphStyle{}, text.NewCollection())
	if err := doc.ApplyMetric(b, unit.Metric{PxPerDp: 2, PxPerSp: 3}); err != nil {
		t.Fatal(err)
	}
	p := b.Build()
	ts := p.Style().TextStyle
	if ts.Size != 40 || ts.LetterSpacing != 3 {
		t.Errorf("size %v letter spacing %v, want 40 and 3", ts.Size, ts.LetterSpacing)
	}
	want := text.PlaceholderStyle{Width: 20, Height: 5, BaselineOffset: 4}
	if got := p.Spans().Placeholder(0); got != want {
		t.Errorf("placeholder %+v, want %+v", got, want)
	}
	if sh := p.Spans().Span(1).Style.Shadows; len(sh) != 1 || sh[0].Offset != f32.Pt(2, 2) {
		t.Errorf("shadows %+v", sh)
	}
	doc, err = Parse("units", `paragraph maxlines=2dp {}`)
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Apply(b); err == nil || !strings.Contains(err.Error(), "without unit") {
		t.Errorf("unit on a scalar: %v", err)
	}
}
