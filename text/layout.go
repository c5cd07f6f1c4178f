// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"fmt"
	"math"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/font"
)

// LayoutResult is a shaped and line broken paragraph at one width. It is
// immutable and may be shared between paragraphs through a LayoutCache.
type LayoutResult struct {
	st    *shapedText
	lines []line
	// maxWidth is the layout constraint, meaningful unless unbounded.
	maxWidth  fixed.Int26_6
	unbounded bool
	// alignWidth is the width lines are aligned within.
	alignWidth fixed.Int26_6
	height     fixed.Int26_6
	longest    fixed.Int26_6
	exceeded   bool
	// placeholders holds the box of every placeholder, indexed by
	// placeholder.
	placeholders []placeholderBox
}

// A line contains the measurements of a line of text.
type line struct {
	lineSpan
	// segments are the pieces of the line in visual order.
	segments []segment
	// ascent is the height above the baseline.
	ascent fixed.Int26_6
	// descent is the height below the baseline, including
	// the line gap.
	descent fixed.Int26_6
	// textAscent and textDescent exclude placeholders and line height
	// scaling.
	textAscent, textDescent fixed.Int26_6
	// top is the offset of the line from the top of the paragraph.
	top      fixed.Int26_6
	baseline fixed.Int26_6
	// x is the alignment offset of the content from the left edge.
	x fixed.Int26_6
}

func (l *line) bottom() fixed.Int26_6 {
	return l.baseline + l.descent
}

// segment is a visual piece of a line: the clusters of a run on the line,
// the trailing whitespace, or the ellipsis.
type segment struct {
	// run is the run index, or -1 for the ellipsis.
	run int
	// start and end delimit the clusters.
	start, end int
	level      uint8
	// x is the left edge relative to the line content origin.
	x     fixed.Int26_6
	width fixed.Int26_6
}

func (s *segment) rtl() bool {
	return s.level%2 == 1
}

// placeholderBox is the position of a placeholder.
type placeholderBox struct {
	line int
	// ascent and descent are relative to the line baseline.
	ascent, descent fixed.Int26_6
	ok              bool
}

// ellipsisRun is a shaped ellipsis marker.
type ellipsisRun struct {
	span            int
	face            font.Face
	size            fixed.Int26_6
	glyphs          []ShapedGlyph
	width           fixed.Int26_6
	rtl             bool
	ascent, descent fixed.Int26_6
}

// shapeEllipsis shapes the paragraph ellipsis in the style of span.
func (s *shaper) shapeEllipsis(st *shapedText, ellipsis string, span int) *ellipsisRun {
	runes := []rune(ellipsis)
	if len(runes) == 0 {
		return nil
	}
	style := st.spans.spans[span].Style
	fnt := style.font("")
	face, ok := s.fonts.ResolveFont(style.Families, fnt, runes[0])
	if !ok {
		face, _ = s.fonts.PrimaryFont(style.Families, fnt)
	}
	script := language.LookupScript(runes[0])
	for _, r := range runes {
		if sc := language.LookupScript(r); sc != language.Common && sc != language.Inherited {
			script = sc
			break
		}
	}
	e := &ellipsisRun{
		span: span,
		face: face,
		size: fixedSize(style.Size),
		rtl:  st.dir == RTL,
	}
	out := s.engine.Shape(ShapeInput{
		Text:     runes,
		Start:    0,
		End:      len(runes),
		Face:     face,
		Size:     e.size,
		RTL:      e.rtl,
		Script:   script,
		Language: language.NewLanguage(style.Locale),
	})
	e.glyphs = out.Glyphs
	for _, g := range out.Glyphs {
		e.width += g.XAdvance
	}
	var r run
	r.setMetrics(out.Ascent, out.Descent, out.Gap, style)
	e.ascent, e.descent = r.ascent, r.descent
	return e
}

// layout breaks st into lines at maxWidth and positions them.
func (s *shaper) layout(st *shapedText, style ParagraphStyle, maxWidth fixed.Int26_6, unbounded bool) *LayoutResult {
	b := &lineBreaker{st: st, maxWidth: maxWidth, unbounded: unbounded}
	spans, exceeded := b.breakLines(style, func(span int) *ellipsisRun {
		return s.shapeEllipsis(st, style.Ellipsis, span)
	})
	if style.Align == Justify {
		for i := 0; i < len(spans)-1; i++ {
			b.justify(&spans[i])
		}
	}
	res := &LayoutResult{
		st:           st,
		maxWidth:     maxWidth,
		unbounded:    unbounded,
		exceeded:     exceeded,
		lines:        make([]line, len(spans)),
		placeholders: make([]placeholderBox, st.spans.Placeholders()),
	}
	base := baseLevel(st.dir)
	for i, ls := range spans {
		l := &res.lines[i]
		l.lineSpan = ls
		l.segments = st.segments(ls, base)
		res.longest = max(res.longest, l.width)
	}
	res.verticalMetrics(style.HeightBehavior)
	res.align(style.Align)
	s.logger.Debug("laid out paragraph", "width", maxWidth, "unbounded", unbounded, "lines", len(res.lines), "exceeded", exceeded)
	return res
}

// segments splits the clusters of a line into runs and reorders them
// visually. Trailing whitespace takes the base level and the ellipsis is
// placed at the end of the line in the base direction.
func (st *shapedText) segments(ls lineSpan, base uint8) []segment {
	var pieces []segment
	for i := ls.start; i < ls.end; {
		c := st.clusters[i]
		r := &st.runs[c.run]
		end := min(r.end, ls.end)
		lvl := r.level
		if i >= ls.contentEnd {
			lvl = base
		} else if end > ls.contentEnd {
			end = ls.contentEnd
		}
		pieces = append(pieces, segment{run: c.run, start: i, end: end, level: lvl})
		i = end
	}
	levels := make([]uint8, len(pieces))
	for i, p := range pieces {
		levels[i] = p.level
	}
	order := visualOrder(levels)
	segs := make([]segment, 0, len(pieces)+1)
	if ls.ellipsis != nil && base == 1 {
		segs = append(segs, segment{run: -1, level: base})
	}
	for _, idx := range order {
		segs = append(segs, pieces[idx])
	}
	if ls.ellipsis != nil && base == 0 {
		segs = append(segs, segment{run: -1, level: base})
	}
	var x, trailing fixed.Int26_6
	for i := range segs {
		sg := &segs[i]
		sg.x = x
		if sg.run < 0 {
			sg.width = ls.ellipsis.width
		} else {
			for ci := sg.start; ci < sg.end; ci++ {
				sg.width += st.clusters[ci].width + ls.extra(ci)
			}
			if sg.start >= ls.contentEnd {
				trailing += sg.width
			}
		}
		x += sg.width
	}
	if base == 1 {
		// Trailing whitespace hangs to the left of the content.
		for i := range segs {
			segs[i].x -= trailing
		}
	}
	return segs
}

// extra returns the justification advance of cluster ci.
func (ls *lineSpan) extra(ci int) fixed.Int26_6 {
	if ls.justify == nil {
		return 0
	}
	return ls.justify[ci-ls.start]
}

// verticalMetrics computes line ascents, descents, placeholder boxes and
// the vertical offsets of every line.
func (res *LayoutResult) verticalMetrics(hb HeightBehavior) {
	st := res.st
	var top fixed.Int26_6
	for i := range res.lines {
		l := &res.lines[i]
		first, last := i == 0, i == len(res.lines)-1
		var (
			asc, desc fixed.Int26_6
			seen      bool
		)
		addRun := func(r *run) {
			a, d := r.ascent, r.descent
			if first && hb&DisableFirstAscent != 0 {
				a = r.rawAscent
			}
			if last && hb&DisableLastDescent != 0 {
				d = r.rawDescent
			}
			if !seen {
				asc, desc, seen = a, d, true
				l.textAscent, l.textDescent = r.tightAscent, r.tightDescent
				return
			}
			asc, desc = max(asc, a), max(desc, d)
			l.textAscent = max(l.textAscent, r.tightAscent)
			l.textDescent = max(l.textDescent, r.tightDescent)
		}
		prevRun := -1
		for ci := l.start; ci < l.end; ci++ {
			ri := st.clusters[ci].run
			if ri == prevRun || st.runs[ri].placeholder >= 0 {
				continue
			}
			prevRun = ri
			addRun(&st.runs[ri])
		}
		if e := l.ellipsis; e != nil {
			addRun(&run{
				ascent: e.ascent, descent: e.descent,
				rawAscent: e.ascent, rawDescent: e.descent,
				tightAscent: e.ascent, tightDescent: e.descent,
			})
		}
		if !seen {
			r := &st.empty
			if l.start > 0 && l.start == l.end {
				if prev := &st.runs[st.clusters[l.start-1].run]; prev.placeholder < 0 {
					r = prev
				}
			}
			addRun(r)
		}
		l.ascent, l.descent = asc, desc
		for ci := l.start; ci < l.end; ci++ {
			r := &st.runs[st.clusters[ci].run]
			if r.placeholder < 0 {
				continue
			}
			box := placeholderMetrics(st.spans.placeholders[r.placeholder], asc, desc)
			box.line = i
			res.placeholders[r.placeholder] = box
			l.ascent = max(l.ascent, box.ascent)
			l.descent = max(l.descent, box.descent)
		}
		l.top = top
		l.baseline = top + l.ascent
		top = l.bottom()
	}
	res.height = top
}

// finite returns v, or zero if v is NaN or infinite.
func finite(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

// placeholderSize clamps a placeholder dimension to a finite,
// non-negative value.
func placeholderSize(v float32) float32 {
	return max(finite(v), 0)
}

// placeholderMetrics positions a placeholder relative to a line whose
// text extends ascent above and descent below the baseline.
func placeholderMetrics(p PlaceholderStyle, ascent, descent fixed.Int26_6) placeholderBox {
	h := fixedSize(placeholderSize(p.Height))
	off := fixedSize(finite(p.BaselineOffset))
	var box placeholderBox
	switch p.Alignment {
	case AlignBaseline:
		box.ascent = off
		if p.Baseline == Ideographic {
			// The ideographic baseline lies at the bottom of the text.
			box.ascent -= descent
		}
	case AboveBaseline:
		box.ascent = h
	case BelowBaseline:
		box.ascent = 0
	case AlignTop:
		box.ascent = ascent
	case AlignBottom:
		box.ascent = h - descent
	case AlignMiddle:
		mid := (descent - ascent) / 2
		box.ascent = h/2 - mid
	default:
		panic(fmt.Errorf("invalid placeholder alignment %d", p.Alignment))
	}
	box.descent = h - box.ascent
	box.ok = true
	return box
}

// align computes the horizontal offset of every line.
func (res *LayoutResult) align(a Alignment) {
	res.alignWidth = res.maxWidth
	if res.unbounded {
		res.alignWidth = res.longest
	}
	rtl := res.st.dir == RTL
	switch a {
	case Start, Justify:
		a = Left
		if rtl {
			a = Right
		}
	case End:
		a = Right
		if rtl {
			a = Left
		}
	}
	for i := range res.lines {
		l := &res.lines[i]
		switch a {
		case Left:
			l.x = 0
		case Right:
			l.x = res.alignWidth - l.width
		case Center:
			l.x = (res.alignWidth - l.width) / 2
		}
	}
}

// clusterPos is the horizontal extent of a cluster on a line.
type clusterPos struct {
	cluster int
	seg     int
	// x0 and x1 are relative to the line content origin.
	x0, x1 fixed.Int26_6
}

// positions returns the clusters of l in visual order.
func (res *LayoutResult) positions(l *line) []clusterPos {
	st := res.st
	var out []clusterPos
	for si := range l.segments {
		sg := &l.segments[si]
		if sg.run < 0 {
			continue
		}
		x := sg.x
		visit := func(ci int) {
			w := st.clusters[ci].width + l.extra(ci)
			out = append(out, clusterPos{cluster: ci, seg: si, x0: x, x1: x + w})
			x += w
		}
		if sg.rtl() {
			for ci := sg.end - 1; ci >= sg.start; ci-- {
				visit(ci)
			}
		} else {
			for ci := sg.start; ci < sg.end; ci++ {
				visit(ci)
			}
		}
	}
	return out
}

// textRange returns the rune range of clusters [start, end).
func (st *shapedText) textRange(start, end int) (int, int) {
	return st.textStart(start), st.textStart(end)
}
