// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"github.com/benoitkugler/textprocessing/fribidi"
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/bidi"
)

// bidiResolver computes embedding levels. The class buffers are reused
// between calls.
type bidiResolver struct {
	types    []fribidi.CharType
	brackets []fribidi.BracketType
}

// classOf returns the bidi class of r.
func classOf(r rune) bidi.Class {
	p, _ := bidi.LookupRune(r)
	return p.Class()
}

// firstStrong returns the direction of the first strong character outside
// isolates, or LTR if there is none.
func firstStrong(text []rune) Direction {
	depth := 0
	for _, r := range text {
		switch classOf(r) {
		case bidi.LRI, bidi.RLI, bidi.FSI:
			depth++
		case bidi.PDI:
			if depth > 0 {
				depth--
			}
		case bidi.L:
			if depth == 0 {
				return LTR
			}
		case bidi.R, bidi.AL:
			if depth == 0 {
				return RTL
			}
		}
	}
	return LTR
}

// resolveDirection returns the base direction of text.
func resolveDirection(d Direction, text []rune) Direction {
	if d == Auto {
		return firstStrong(text)
	}
	return d
}

// baseLevel returns the paragraph embedding level of dir.
func baseLevel(dir Direction) uint8 {
	if dir == RTL {
		return 1
	}
	return 0
}

// levels returns the embedding level of every rune of text for the base
// direction dir, which must not be Auto. The text is split into bidi
// paragraphs at hard breaks; separators take the base level.
func (b *bidiResolver) levels(text []rune, dir Direction) []uint8 {
	base := baseLevel(dir)
	levels := make([]uint8, len(text))
	for i := range levels {
		levels[i] = base
	}
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !isHardBreak(text[i]) {
			continue
		}
		if i > start {
			b.paragraphLevels(text[start:i], dir, levels[start:i])
		}
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	return levels
}

// paragraphLevels resolves the levels of a single bidi paragraph into
// levels, following the explicit, weak, neutral and bracket pair rules
// of the bidi algorithm up to and including L1 for the paragraph end.
func (b *bidiResolver) paragraphLevels(text []rune, dir Direction, levels []uint8) {
	b.types = b.types[:0]
	b.brackets = b.brackets[:0]
	for _, r := range text {
		b.types = append(b.types, fribidi.GetBidiType(r))
		b.brackets = append(b.brackets, fribidi.GetBracket(r))
	}
	par := fribidi.ParType(fribidi.LTR)
	if dir == RTL {
		par = fribidi.RTL
	}
	resolved, _ := fribidi.GetParEmbeddingLevels(b.types, b.brackets, &par)
	for i, l := range resolved {
		if l >= 0 {
			levels[i] = uint8(l)
		}
	}
}

// visualOrder returns the indices of items with the given levels in
// visual order, reversing every maximal sequence at or above each odd
// level from the highest level down.
func visualOrder(levels []uint8) []int {
	order := make([]int, len(levels))
	var maxLevel uint8
	minOdd := uint8(255)
	for i, l := range levels {
		order[i] = i
		if l > maxLevel {
			maxLevel = l
		}
		if l%2 == 1 && l < minOdd {
			minOdd = l
		}
	}
	for lvl := maxLevel; lvl >= minOdd && lvl > 0; lvl-- {
		for i := 0; i < len(order); {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < len(order) && levels[order[j]] >= lvl {
				j++
			}
			slices.Reverse(order[i:j])
			i = j
		}
	}
	return order
}

