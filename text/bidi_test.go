// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		levels []uint8
		want   []int
	}{
		{nil, []int{}},
		{[]uint8{0, 0, 0}, []int{0, 1, 2}},
		{[]uint8{1, 1, 1}, []int{2, 1, 0}},
		{[]uint8{0, 1, 1, 0}, []int{0, 2, 1, 3}},
		{[]uint8{1, 2, 2, 1}, []int{3, 1, 2, 0}},
		{[]uint8{0, 1, 2, 2, 1, 0}, []int{0, 4, 2, 3, 1, 5}},
		{[]uint8{2, 2, 0}, []int{0, 1, 2}},
	}
	for _, tc := range tests {
		got := visualOrder(tc.levels)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("visualOrder(%v) mismatch (-want +got):\n%s", tc.levels, diff)
		}
	}
}

func TestFirstStrong(t *testing.T) {
	tests := []struct {
		text string
		want Direction
	}{
		{"", LTR},
		{"123", LTR},
		{"abc", LTR},
		{"שלום", RTL},
		{"12 שלום abc", RTL},
		{"مرحبا", RTL},
		// Isolated text does not count.
		{"\u2067שלום\u2069 abc", LTR},
	}
	for _, tc := range tests {
		if got := firstStrong([]rune(tc.text)); got != tc.want {
			t.Errorf("firstStrong(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
	if got := resolveDirection(LTR, []rune("שלום")); got != LTR {
		t.Errorf("explicit direction overridden: %v", got)
	}
}

func TestBidiLevels(t *testing.T) {
	tests := []struct {
		name string
		text string
		dir  Direction
		want []uint8
	}{
		{"ltr", "abc", LTR, []uint8{0, 0, 0}},
		{"rtl in ltr", "אב", LTR, []uint8{1, 1}},
		{"rtl", "אב", RTL, []uint8{1, 1}},
		{"ltr in rtl", "ab", RTL, []uint8{2, 2}},
		{"mixed", "a אב", LTR, []uint8{0, 0, 1, 1}},
		{"separate paragraphs", "a\nא", LTR, []uint8{0, 0, 1}},
		// Numbers.
		{"en after r", "א 12", LTR, []uint8{1, 1, 2, 2}},
		{"en after r in rtl", "אב 12", RTL, []uint8{1, 1, 1, 2, 2}},
		{"en after l in rtl", "ab 12", RTL, []uint8{2, 2, 2, 2, 2}},
		{"an in ltr", "ab \u0661\u0662", LTR, []uint8{0, 0, 0, 2, 2}},
		{"en after al", "\u0645\u0631 12", LTR, []uint8{1, 1, 1, 2, 2}},
		{"separator between digits", "א 1-2", LTR, []uint8{1, 1, 2, 2, 2}},
		{"terminator", "א 5%", LTR, []uint8{1, 1, 2, 2}},
		{"an around bracket", "\u0664(\u06631\u0664)", LTR, []uint8{2, 0, 2, 0, 2, 0}},
		// Bracket pairs take the direction of their content and context.
		{"bracket pair", "א (ב) c", LTR, []uint8{1, 1, 1, 1, 1, 0, 0}},
		// Explicit embeddings and overrides. Controls take the level of
		// the preceding character.
		{"rle", "a \u202Bb אב\u202C c", LTR, []uint8{0, 0, 0, 2, 1, 1, 1, 1, 0, 0}},
		{"lre", "א \u202Aa ב\u202C ד", RTL, []uint8{1, 1, 1, 2, 2, 3, 3, 1, 1}},
		{"rlo", "\u202Eab\u202C c", LTR, []uint8{0, 1, 1, 1, 0, 0}},
		{"lro at end", "\u202Dאב\u202C", RTL, []uint8{1, 2, 2, 1}},
		// Isolates.
		{"rli", "a \u2067אב 12\u2069 c", LTR, []uint8{0, 0, 0, 1, 1, 1, 2, 2, 0, 0, 0}},
		{"fsi", "\u2068אב\u2069 c", LTR, []uint8{0, 1, 1, 0, 0, 0}},
		{"lri at end", "א \u2066ab\u2069", RTL, []uint8{1, 1, 1, 2, 2, 1}},
		{"unterminated rli", "a-\u2067(\u0663", RTL, []uint8{2, 1, 1, 3, 4}},
	}
	var b bidiResolver
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := b.levels([]rune(tc.text), tc.dir)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("%q %v: levels mismatch (-want +got):\n%s", tc.text, tc.dir, diff)
			}
		})
	}
}

// visualText returns the text of line i in display order, without bidi
// controls.
func visualText(p *Paragraph, i int) string {
	in := p.Inspect()
	text := []rune(p.Text())
	var out []rune
	for _, sg := range in.Lines[i].Segments {
		if sg.Run < 0 {
			continue
		}
		clusters := in.Clusters[sg.Start:sg.End]
		for k := range clusters {
			c := clusters[k]
			if sg.Level%2 == 1 {
				c = clusters[len(clusters)-1-k]
			}
			if c.End-c.Start == 1 && isBidiControl(text[c.Start]) {
				continue
			}
			out = append(out, text[c.Start:c.End]...)
		}
	}
	return string(out)
}

func TestBidiVisualOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		dir  Direction
		want string
	}{
		{"plain", "ab אב cd", LTR, "ab בא cd"},
		{"rtl paragraph", "אב cd", RTL, "cd בא"},
		{"numbers in rtl text", "א 12 ב", LTR, "ב 12 א"},
		{"embedding", "a \u202Bb אב\u202C c", LTR, "a בא b c"},
		{"embedding in rtl", "א \u202Aa ב\u202C ד", RTL, "ד a ב א"},
		{"override", "\u202Eab\u202C c", LTR, "ba c"},
		{"isolate", "a \u2067אב 12\u2069 c", LTR, "a 12 בא c"},
		{"bracket pair", "א (ב) c", LTR, ")ב( א c"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			style := testStyle()
			style.Direction = tc.dir
			p := buildParagraph(style, tc.text)
			p.Layout(1000)
			if n := p.LineCount(); n != 1 {
				t.Fatalf("got %d lines", n)
			}
			if got := visualText(p, 0); got != tc.want {
				t.Errorf("visual order %q, want %q", got, tc.want)
			}
		})
	}
}
