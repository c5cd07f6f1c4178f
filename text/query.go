// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"sort"

	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/f32"
)

// RectHeightStyle selects the vertical extent of range rectangles.
type RectHeightStyle uint8

const (
	// HeightTight bounds rectangles by the font extents of each run.
	HeightTight RectHeightStyle = iota
	// HeightMax extends rectangles to the full line box.
	HeightMax
	// HeightIncludeLineSpacingTop adds the extra line height above the text.
	HeightIncludeLineSpacingTop
	// HeightIncludeLineSpacingMiddle splits the extra line height evenly
	// above and below the text.
	HeightIncludeLineSpacingMiddle
	// HeightIncludeLineSpacingBottom adds the extra line height below the
	// text.
	HeightIncludeLineSpacingBottom
)

// RectWidthStyle selects the horizontal extent of range rectangles.
type RectWidthStyle uint8

const (
	// WidthTight bounds rectangles by the selected clusters.
	WidthTight RectWidthStyle = iota
	// WidthMax extends the selection of lines it continues past to the
	// width of the paragraph.
	WidthMax
)

// TextBox is a rectangle covering laid out text.
type TextBox struct {
	Rect      f32.Rectangle
	Direction Direction
}

// Affinity disambiguates a text position at a cluster boundary.
type Affinity uint8

const (
	// Upstream attaches the position to the end of the preceding cluster.
	Upstream Affinity = iota
	// Downstream attaches the position to the start of the following
	// cluster.
	Downstream
)

func (a Affinity) String() string {
	if a == Upstream {
		return "Upstream"
	}
	return "Downstream"
}

// PositionWithAffinity is a rune position in the text.
type PositionWithAffinity struct {
	Position int
	Affinity Affinity
}

// Range is a half-open rune range.
type Range struct {
	Start, End int
}

// LineMetrics describes a laid out line. Indices are rune positions;
// distances are in pixels.
type LineMetrics struct {
	StartIndex             int
	EndExcludingWhitespace int
	// EndIndex excludes the hard break character, if any.
	EndIndex            int
	EndIncludingNewline int
	HardBreak           bool
	// Ascent and Descent are measured from the baseline; Descent includes
	// the line gap.
	Ascent, Descent float32
	Height          float32
	Width           float32
	// Left is the left edge of the line content.
	Left float32
	// Baseline is the offset of the baseline from the top of the
	// paragraph.
	Baseline   float32
	LineNumber int
}

// selection converts a rune range to a cluster range, widening it to
// whole clusters. It reports false for empty or out of range input.
func (res *LayoutResult) selection(start, end int) (int, int, bool) {
	n := len(res.st.text)
	start = max(start, 0)
	end = min(end, n)
	if start >= end {
		return 0, 0, false
	}
	return res.st.clusterAt(start), res.st.clusterAt(end-1) + 1, true
}

func (res *LayoutResult) rectsForRange(start, end int, hs RectHeightStyle, ws RectWidthStyle) []TextBox {
	c0, c1, ok := res.selection(start, end)
	if !ok {
		return nil
	}
	st := res.st
	var boxes []TextBox
	for li := range res.lines {
		l := &res.lines[li]
		if l.start == l.end || l.end <= c0 || l.start >= c1 {
			continue
		}
		pos := res.positions(l)
		var lineBoxes []TextBox
		var minX, maxX fixed.Int26_6
		for i, p := range pos {
			if i == 0 || p.x0 < minX {
				minX = p.x0
			}
			if i == 0 || p.x1 > maxX {
				maxX = p.x1
			}
		}
		for i := 0; i < len(pos); {
			si := pos[i].seg
			j := i
			var (
				x0, x1 fixed.Int26_6
				found  bool
			)
			// Clusters of a run need not advance monotonically, so the
			// extent is the union of the selected clusters.
			for ; j < len(pos) && pos[j].seg == si; j++ {
				p := pos[j]
				if p.cluster < c0 || p.cluster >= c1 || st.clusters[p.cluster].is(flagHardBreak) {
					continue
				}
				if !found {
					x0, x1, found = p.x0, p.x1, true
					continue
				}
				x0, x1 = min(x0, p.x0), max(x1, p.x1)
			}
			i = j
			if !found {
				continue
			}
			sg := &l.segments[si]
			y0, y1 := res.verticalExtent(l, sg, hs)
			dir := LTR
			if sg.rtl() {
				dir = RTL
			}
			box := TextBox{
				Rect:      f32.Rectangle{Min: f32.Pt(f32.FromFixed(l.x+x0), y0), Max: f32.Pt(f32.FromFixed(l.x+x1), y1)},
				Direction: dir,
			}
			if n := len(lineBoxes); n > 0 {
				prev := &lineBoxes[n-1]
				if prev.Direction == box.Direction && prev.Rect.Max.X == box.Rect.Min.X &&
					prev.Rect.Min.Y == box.Rect.Min.Y && prev.Rect.Max.Y == box.Rect.Max.Y {
					prev.Rect = prev.Rect.Union(box.Rect)
					continue
				}
			}
			lineBoxes = append(lineBoxes, box)
		}
		if ws == WidthMax && c1 > l.end && li < len(res.lines)-1 && len(lineBoxes) > 0 {
			y0, y1 := lineBoxes[0].Rect.Min.Y, lineBoxes[0].Rect.Max.Y
			right := max(res.alignWidth, res.longest)
			if st.dir == RTL {
				if left := l.x + minX; left > 0 {
					lineBoxes = append(lineBoxes, TextBox{
						Rect:      f32.Rect(0, y0, f32.FromFixed(left), y1),
						Direction: RTL,
					})
				}
			} else if edge := l.x + maxX; edge < right {
				lineBoxes = append(lineBoxes, TextBox{
					Rect:      f32.Rect(f32.FromFixed(edge), y0, f32.FromFixed(right), y1),
					Direction: LTR,
				})
			}
		}
		boxes = append(boxes, lineBoxes...)
	}
	return boxes
}

// verticalExtent returns the top and bottom of a range rectangle in
// segment sg of line l.
func (res *LayoutResult) verticalExtent(l *line, sg *segment, hs RectHeightStyle) (float32, float32) {
	var y0, y1 fixed.Int26_6
	spacing := (l.ascent + l.descent) - (l.textAscent + l.textDescent)
	switch hs {
	case HeightMax:
		y0, y1 = l.top, l.bottom()
	case HeightIncludeLineSpacingTop:
		y0, y1 = l.top, l.baseline+l.textDescent
	case HeightIncludeLineSpacingBottom:
		y0, y1 = l.baseline-l.textAscent, l.bottom()
	case HeightIncludeLineSpacingMiddle:
		y0 = l.baseline - l.textAscent - spacing/2
		y1 = l.baseline + l.textDescent + (spacing - spacing/2)
	default:
		r := &res.st.runs[sg.run]
		if r.placeholder >= 0 {
			box := res.placeholders[r.placeholder]
			y0, y1 = l.baseline-box.ascent, l.baseline+box.descent
		} else {
			y0, y1 = l.baseline-r.tightAscent, l.baseline+r.tightDescent
		}
	}
	return f32.FromFixed(y0), f32.FromFixed(y1)
}

// lineAt returns the index of the line at vertical offset y, clamping to
// the first and last lines.
func (res *LayoutResult) lineAt(y fixed.Int26_6) int {
	i := sort.Search(len(res.lines), func(i int) bool {
		return res.lines[i].bottom() > y
	})
	return min(i, len(res.lines)-1)
}

func (res *LayoutResult) glyphPositionAt(x, y fixed.Int26_6) PositionWithAffinity {
	if len(res.lines) == 0 {
		return PositionWithAffinity{Affinity: Downstream}
	}
	l := &res.lines[res.lineAt(y)]
	st := res.st
	var pos []clusterPos
	for _, p := range res.positions(l) {
		if st.clusters[p.cluster].is(flagHardBreak) || st.clusters[p.cluster].is(flagControl) {
			continue
		}
		pos = append(pos, p)
	}
	if len(pos) == 0 {
		return PositionWithAffinity{Position: st.textStart(l.start), Affinity: Downstream}
	}
	x -= l.x
	if l.ellipsis != nil {
		for _, sg := range l.segments {
			if sg.run < 0 && x >= sg.x && x < sg.x+sg.width {
				return PositionWithAffinity{Position: st.textStart(l.end), Affinity: Upstream}
			}
		}
	}
	k := sort.Search(len(pos), func(i int) bool {
		return pos[i].x1 > x
	})
	if k == len(pos) {
		k = len(pos) - 1
	}
	p := pos[k]
	c := st.clusters[p.cluster]
	rtl := l.segments[p.seg].rtl()
	leftHalf := x < (p.x0+p.x1)/2
	switch {
	case leftHalf && !rtl:
		return PositionWithAffinity{Position: c.start, Affinity: Downstream}
	case leftHalf && rtl:
		return PositionWithAffinity{Position: c.end, Affinity: Upstream}
	case !rtl:
		return PositionWithAffinity{Position: c.end, Affinity: Upstream}
	default:
		return PositionWithAffinity{Position: c.start, Affinity: Downstream}
	}
}

func (res *LayoutResult) wordBoundary(pos int) Range {
	words := res.st.words
	if len(words) < 2 {
		return Range{}
	}
	// Index of the first boundary after pos.
	i := sort.Search(len(words), func(i int) bool {
		return words[i] > pos
	})
	i = max(1, min(i, len(words)-1))
	return Range{Start: words[i-1], End: words[i]}
}

func (res *LayoutResult) lineMetrics(i int) LineMetrics {
	l := &res.lines[i]
	st := res.st
	start, end := st.textRange(l.start, l.end)
	endIndex := end
	if l.hardBreak {
		endIndex = st.clusters[l.end-1].start
	}
	return LineMetrics{
		StartIndex:             start,
		EndExcludingWhitespace: st.textStart(l.contentEnd),
		EndIndex:               endIndex,
		EndIncludingNewline:    end,
		HardBreak:              l.hardBreak,
		Ascent:                 f32.FromFixed(l.ascent),
		Descent:                f32.FromFixed(l.descent),
		Height:                 f32.FromFixed(l.ascent + l.descent),
		Width:                  f32.FromFixed(l.width),
		Left:                   f32.FromFixed(l.x),
		Baseline:               f32.FromFixed(l.baseline),
		LineNumber:             i,
	}
}

// lineNumberAt returns the line containing rune position pos, or -1.
func (res *LayoutResult) lineNumberAt(pos int) int {
	n := len(res.st.text)
	if pos < 0 || pos > n || len(res.lines) == 0 {
		return -1
	}
	if pos == n {
		return len(res.lines) - 1
	}
	c := res.st.clusterAt(pos)
	for i := range res.lines {
		l := &res.lines[i]
		if c >= l.start && c < l.end {
			return i
		}
	}
	// Truncated text belongs to no line.
	return -1
}

func (res *LayoutResult) placeholderRects() []TextBox {
	var boxes []TextBox
	for li := range res.lines {
		l := &res.lines[li]
		for _, p := range res.positions(l) {
			r := &res.st.runs[res.st.clusters[p.cluster].run]
			if r.placeholder < 0 {
				continue
			}
			box := res.placeholders[r.placeholder]
			dir := LTR
			if r.rtl() {
				dir = RTL
			}
			boxes = append(boxes, TextBox{
				Rect: f32.Rect(
					f32.FromFixed(l.x+p.x0), f32.FromFixed(l.baseline-box.ascent),
					f32.FromFixed(l.x+p.x1), f32.FromFixed(l.baseline+box.descent),
				),
				Direction: dir,
			})
		}
	}
	return boxes
}
