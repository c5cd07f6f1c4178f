// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		graphemes  []int
		softBreaks []bool
		hardBreaks []bool
		words      []int
	}{
		{
			name:      "empty",
			graphemes: []int{0},
			words:     []int{0},
		},
		{
			name:       "words",
			text:       "ab cd",
			graphemes:  []int{0, 1, 2, 3, 4, 5},
			softBreaks: []bool{false, false, true, false, true},
			hardBreaks: []bool{false, false, false, false, false},
			words:      []int{0, 2, 3, 5},
		},
		{
			name:       "combining marks",
			text:       "e\u0301x",
			graphemes:  []int{0, 2, 3},
			softBreaks: []bool{false, true},
			hardBreaks: []bool{false, false},
			words:      []int{0, 3},
		},
		{
			name:       "crlf",
			text:       "a\r\nb",
			graphemes:  []int{0, 1, 3, 4},
			softBreaks: []bool{false, false, true},
			hardBreaks: []bool{false, true, false},
			words:      []int{0, 1, 3, 4},
		},
	}
	var s textSegmenter
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.segment([]rune(tc.text))
			if diff := cmp.Diff(tc.graphemes, got.graphemes); diff != "" {
				t.Errorf("graphemes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.softBreaks, got.softBreaks); diff != "" {
				t.Errorf("soft breaks mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.hardBreaks, got.hardBreaks); diff != "" {
				t.Errorf("hard breaks mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.words, got.words); diff != "" {
				t.Errorf("words mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShapingText(t *testing.T) {
	in := []rune("a\nb\u2029c")
	out := shapingText(in)
	if string(out) != "a b c" {
		t.Errorf("shaping text %q", string(out))
	}
	if string(in) != "a\nb\u2029c" {
		t.Error("input modified")
	}
}

func TestClassifiers(t *testing.T) {
	for _, r := range []rune{'\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029'} {
		if !isHardBreak(r) {
			t.Errorf("%U is not a hard break", r)
		}
	}
	if isHardBreak(' ') || isHardBreak('a') {
		t.Error("ordinary runes classified as hard breaks")
	}
	for _, r := range []rune{'\u202A', '\u202E', '\u2066', '\u2069', '\u200E', '\u200F', '\u061C'} {
		if !isBidiControl(r) {
			t.Errorf("%U is not a bidi control", r)
		}
	}
	if !isWhitespace([]rune(" \t")) || isWhitespace([]rune(" a")) || isWhitespace(nil) {
		t.Error("whitespace classification mismatch")
	}
}
