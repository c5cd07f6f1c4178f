// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"unicode"

	"github.com/go-text/typesetting/segmenter"
)

// clusterFlags classify a grapheme cluster.
type clusterFlags uint8

const (
	// flagSoftBreak marks a permitted line break after the cluster.
	flagSoftBreak clusterFlags = 1 << iota
	// flagHardBreak marks a cluster that forces a line break after it.
	flagHardBreak
	// flagWhitespace marks clusters that hang at the end of lines.
	flagWhitespace
	flagPlaceholder
	// flagControl marks bidi formatting characters, which take no space.
	flagControl
	// flagTofu marks clusters without a glyph in any resolved face.
	flagTofu
)

// segmentation is the width independent analysis of a text buffer.
type segmentation struct {
	// graphemes holds the start of every grapheme cluster, followed by the
	// length of the text.
	graphemes []int
	// softBreaks and hardBreaks report, per cluster, the break opportunity
	// after it.
	softBreaks []bool
	hardBreaks []bool
	// words holds sorted word boundary positions, including 0 and the text
	// length.
	words []int
}

// textSegmenter analyses text for graphemes, line breaks and words. Its
// buffers are reused between calls.
type textSegmenter struct {
	seg segmenter.Segmenter
}

// segment runs the Unicode analysis passes over text.
func (s *textSegmenter) segment(text []rune) segmentation {
	var out segmentation
	if len(text) == 0 {
		out.graphemes = []int{0}
		out.words = []int{0}
		return out
	}
	s.seg.Init(text)
	graphemes := s.seg.GraphemeIterator()
	for graphemes.Next() {
		out.graphemes = append(out.graphemes, graphemes.Grapheme().Offset)
	}
	out.graphemes = append(out.graphemes, len(text))
	n := len(out.graphemes) - 1

	// Line break opportunities fall on grapheme boundaries.
	breakAt := make(map[int]bool)
	lines := s.seg.LineIterator()
	for lines.Next() {
		l := lines.Line()
		breakAt[l.Offset+len(l.Text)] = true
	}
	out.softBreaks = make([]bool, n)
	out.hardBreaks = make([]bool, n)
	for i := 0; i < n; i++ {
		start, end := out.graphemes[i], out.graphemes[i+1]
		if isHardBreak(text[start]) {
			out.hardBreaks[i] = true
			continue
		}
		out.softBreaks[i] = breakAt[end]
	}

	out.words = append(out.words, 0)
	words := s.seg.WordIterator()
	for words.Next() {
		w := words.Word()
		out.words = appendBoundary(out.words, w.Offset)
		out.words = appendBoundary(out.words, w.Offset+len(w.Text))
	}
	out.words = appendBoundary(out.words, len(text))
	return out
}

func appendBoundary(bs []int, b int) []int {
	if bs[len(bs)-1] == b {
		return bs
	}
	return append(bs, b)
}

// isHardBreak reports whether r is a mandatory line break. CR LF pairs
// form a single grapheme starting with CR.
func isHardBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f',
		// Next line.
		'\u0085',
		// Line and paragraph separators.
		'\u2028', '\u2029':
		return true
	}
	return false
}

// isBidiControl reports whether r is a bidi formatting character.
func isBidiControl(r rune) bool {
	switch {
	case r >= '\u202A' && r <= '\u202E':
		// LRE, RLE, PDF, LRO, RLO.
		return true
	case r >= '\u2066' && r <= '\u2069':
		// LRI, RLI, FSI, PDI.
		return true
	case r == '\u200E', r == '\u200F', r == '\u061C':
		// LRM, RLM, ALM.
		return true
	}
	return false
}

// isWhitespace reports whether every rune of a cluster is white space.
func isWhitespace(cluster []rune) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return len(cluster) > 0
}

// shapingText returns a copy of text suitable for the shaper: hard break
// characters become spaces so that rune accounting stays aligned and no
// face is asked for a line separator glyph.
func shapingText(text []rune) []rune {
	out := make([]rune, len(text))
	copy(out, text)
	for i, r := range out {
		switch r {
		// ASCII File separator.
		case '\u001C':
		// ASCII Group separator.
		case '\u001D':
		// ASCII Record separator.
		case '\u001E':
		case '\r', '\n', '\v', '\f':
		// Unicode "next line" character.
		case '\u0085':
		// Unicode line and paragraph separators.
		case '\u2028', '\u2029':
		default:
			continue
		}
		out[i] = ' '
	}
	return out
}
