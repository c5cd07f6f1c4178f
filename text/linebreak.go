// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"golang.org/x/image/math/fixed"
)

// lineSpan is a line chosen by the line breaker, in clusters.
type lineSpan struct {
	// start and end delimit all clusters of the line, including trailing
	// whitespace and the hard break.
	start, end int
	// contentEnd excludes trailing whitespace and the hard break.
	contentEnd int
	// width is the width of the content.
	width     fixed.Int26_6
	hardBreak bool
	// ellipsis is set for a truncated final line that takes an ellipsis
	// marker.
	ellipsis *ellipsisRun
	// justify holds extra advance per cluster, relative to start, or nil.
	justify []fixed.Int26_6
}

// lineBreaker splits shaped text into lines.
type lineBreaker struct {
	st        *shapedText
	maxWidth  fixed.Int26_6
	unbounded bool
}

// breakLines runs the greedy line breaker. It returns the lines and
// whether content was dropped because of the line limit.
func (b *lineBreaker) breakLines(style ParagraphStyle, shapeEllipsis func(span int) *ellipsisRun) ([]lineSpan, bool) {
	clusters := b.st.clusters
	var lines []lineSpan
	pos := 0
	for {
		if style.MaxLines > 0 && len(lines) == style.MaxLines {
			more := pos < len(clusters) || lines[len(lines)-1].hardBreak
			if !more {
				break
			}
			if style.Ellipsis != "" {
				last := &lines[len(lines)-1]
				span := b.st.spans.SpanAt(b.st.textStart(last.start))
				b.ellipsize(last, shapeEllipsis(span))
			} else {
				last := &lines[len(lines)-1]
				last.hardBreak = false
				last.justify = nil
			}
			return lines, true
		}
		if pos == len(clusters) && len(lines) > 0 && !lines[len(lines)-1].hardBreak {
			break
		}
		l := b.nextLine(pos)
		lines = append(lines, l)
		pos = l.end
		if l.end == len(clusters) && !l.hardBreak {
			break
		}
		if l.start == l.end {
			// The empty line after a final hard break, or empty text.
			break
		}
	}
	return lines, false
}

// nextLine greedily fills a line starting at cluster start. Every line
// except a final empty one takes at least one cluster.
func (b *lineBreaker) nextLine(start int) lineSpan {
	clusters := b.st.clusters
	l := lineSpan{start: start, end: start}
	var (
		x fixed.Int26_6
		// lastBreak is the cluster after the last break opportunity.
		lastBreak = -1
	)
	i := start
	for ; i < len(clusters); i++ {
		c := clusters[i]
		if c.is(flagHardBreak) {
			i++
			l.hardBreak = true
			break
		}
		if !b.unbounded && i > start && !c.is(flagWhitespace) && x+c.width > b.maxWidth {
			if lastBreak > start {
				i = lastBreak
			}
			break
		}
		x += c.width
		if c.is(flagSoftBreak) {
			lastBreak = i + 1
		}
	}
	l.end = i
	l.contentEnd = b.st.trimEnd(l.start, l.end)
	l.width = b.st.width(l.start, l.contentEnd)
	return l
}

// ellipsize truncates l so that its content followed by e fits the width.
// The marker is dropped if it does not fit on its own.
func (b *lineBreaker) ellipsize(l *lineSpan, e *ellipsisRun) {
	l.hardBreak = false
	l.justify = nil
	avail := b.maxWidth
	if e != nil && (b.unbounded || e.width <= b.maxWidth) {
		avail -= e.width
		l.ellipsis = e
	}
	end := l.start
	var x fixed.Int26_6
	for end < l.contentEnd {
		w := b.st.clusters[end].width
		if !b.unbounded && x+w > avail {
			break
		}
		x += w
		end++
	}
	l.end = b.st.trimEnd(l.start, end)
	l.contentEnd = l.end
	l.width = b.st.width(l.start, l.contentEnd)
	if l.ellipsis != nil {
		l.width += l.ellipsis.width
	}
}

// justify stretches the whitespace inside the content of l to fill the
// width. The remainder of the division goes to the first gaps.
func (b *lineBreaker) justify(l *lineSpan) {
	if b.unbounded || l.hardBreak || l.ellipsis != nil || l.width >= b.maxWidth {
		return
	}
	var gaps []int
	for i := l.start; i < l.contentEnd; i++ {
		if b.st.clusters[i].is(flagWhitespace) {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		return
	}
	slack := b.maxWidth - l.width
	share := slack / fixed.Int26_6(len(gaps))
	rem := int(slack - share*fixed.Int26_6(len(gaps)))
	l.justify = make([]fixed.Int26_6, l.end-l.start)
	for k, ci := range gaps {
		extra := share
		if k < rem {
			extra++
		}
		l.justify[ci-l.start] = extra
	}
	l.width = b.maxWidth
}

// trimEnd returns the end of the clusters [start, end) without trailing
// whitespace, controls and hard breaks.
func (st *shapedText) trimEnd(start, end int) int {
	for end > start {
		c := st.clusters[end-1]
		if !c.is(flagWhitespace) && !c.is(flagHardBreak) && !c.is(flagControl) {
			break
		}
		end--
	}
	return end
}

// width sums the cluster widths of [start, end).
func (st *shapedText) width(start, end int) fixed.Int26_6 {
	var w fixed.Int26_6
	for i := start; i < end; i++ {
		w += st.clusters[i].width
	}
	return w
}

// textStart returns the rune position of cluster i, which may be the
// cluster count.
func (st *shapedText) textStart(i int) int {
	if i < len(st.clusters) {
		return st.clusters[i].start
	}
	return len(st.text)
}
