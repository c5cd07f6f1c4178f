// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"fmt"

	"github.com/go-text/typesetting/language"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font"
)

// A cluster is a grapheme cluster, the smallest unit of layout.
type cluster struct {
	// start and end delimit the runes of the cluster.
	start, end int
	// width is the advance of the cluster including letter and word
	// spacing.
	width fixed.Int26_6
	// run is the index of the run containing the cluster.
	run   int
	flags clusterFlags
}

func (c cluster) is(f clusterFlags) bool {
	return c.flags&f != 0
}

// glyph is a shaped glyph attached to a cluster.
type glyph struct {
	id GlyphID
	// cluster is the index of the cluster the glyph is drawn at. For
	// shaping clusters spanning several graphemes it is the visually
	// leftmost one.
	cluster          int
	xAdvance         fixed.Int26_6
	xOffset, yOffset fixed.Int26_6
	bounds           fixed.Rectangle26_6
}

// run is a maximal sequence of clusters sharing a style span, a bidi
// level, a script and a face.
type run struct {
	// start and end delimit the clusters of the run.
	start, end int
	level      uint8
	span       int
	script     language.Script
	face       font.Face
	size       fixed.Int26_6
	// glyphs are in visual order.
	glyphs []glyph
	// ascent and descent are the line metrics contributed by the run, the
	// descent including the line gap. They are scaled when the style
	// overrides the line height.
	ascent, descent fixed.Int26_6
	// rawAscent and rawDescent are the unscaled font metrics.
	rawAscent, rawDescent fixed.Int26_6
	// tightAscent and tightDescent exclude the line gap.
	tightAscent, tightDescent fixed.Int26_6
	// placeholder is the placeholder index, or -1.
	placeholder int
}

func (r *run) rtl() bool {
	return r.level%2 == 1
}

// shapedText is the width independent part of a layout: segmentation,
// bidi levels and shaped runs. It is immutable once built.
type shapedText struct {
	text     []rune
	spans    *StyleSpanTable
	clusters []cluster
	runs     []run
	// runeCluster maps every rune to its cluster.
	runeCluster []int
	words       []int
	dir         Direction
	// minIntrinsic is the widest unbreakable sequence; maxIntrinsic is the
	// widest hard line.
	minIntrinsic, maxIntrinsic fixed.Int26_6
	// empty holds the metrics of lines without clusters.
	empty run
}

// shaper converts paragraph text into shaped clusters and runs.
type shaper struct {
	fonts  FontCollection
	engine ShapingEngine
	logger *slog.Logger
	seg    textSegmenter
	bidi   bidiResolver
}

// itemKey identifies the attributes that split runs.
type itemKey struct {
	span   int
	level  uint8
	script language.Script
	face   font.Face
}

func fixedSize(px float32) fixed.Int26_6 {
	return f32.ToFixed(px)
}

// shape analyses and shapes text styled by spans.
func (s *shaper) shape(text []rune, spans *StyleSpanTable, style ParagraphStyle) *shapedText {
	st := &shapedText{
		text:  text,
		spans: spans,
		dir:   resolveDirection(style.Direction, text),
	}
	seg := s.seg.segment(text)
	st.words = seg.words
	levels := s.bidi.levels(text, st.dir)
	nclusters := len(seg.graphemes) - 1
	st.clusters = make([]cluster, nclusters)
	st.runeCluster = make([]int, len(text))
	for i := range st.clusters {
		start, end := seg.graphemes[i], seg.graphemes[i+1]
		c := cluster{start: start, end: end}
		if seg.softBreaks[i] {
			c.flags |= flagSoftBreak
		}
		if seg.hardBreaks[i] {
			c.flags |= flagHardBreak
		}
		r := text[start]
		switch {
		case spans.spans[spans.SpanAt(start)].Placeholder >= 0:
			c.flags |= flagPlaceholder
		case isBidiControl(r) && end-start == 1:
			c.flags |= flagControl
		case !c.is(flagHardBreak) && isWhitespace(text[start:end]):
			c.flags |= flagWhitespace
		}
		st.clusters[i] = c
		for j := start; j < end; j++ {
			st.runeCluster[j] = i
		}
	}
	s.itemize(st, levels)
	s.shapeRuns(st, text)
	st.empty = s.emptyRun(spans.spans[len(spans.spans)-1].Style)
	st.intrinsicWidths()
	st.check()
	s.logger.Debug("shaped paragraph", "runes", len(text), "clusters", nclusters, "runs", len(st.runs))
	return st
}

// itemize splits the clusters into runs.
func (s *shaper) itemize(st *shapedText, levels []uint8) {
	tofu := 0
	var cur itemKey
	for i := range st.clusters {
		c := &st.clusters[i]
		r := st.text[c.start]
		spanIdx := st.spans.SpanAt(c.start)
		span := st.spans.spans[spanIdx]
		key := itemKey{span: spanIdx, level: levels[c.start]}
		open := len(st.runs) > 0 && cur.span == key.span && cur.level == key.level &&
			!c.is(flagPlaceholder) && !st.clusters[i-1].is(flagPlaceholder)
		sc := language.LookupScript(r)
		common := sc == language.Common || sc == language.Inherited
		switch {
		case c.is(flagPlaceholder):
			key.script = language.Common
		case open && common:
			key.script = cur.script
		default:
			key.script = sc
		}
		if open && cur.script == language.Common && !common {
			// Text starting with common runes takes the first real script.
			cur.script = sc
			st.runs[len(st.runs)-1].script = sc
			key.script = sc
		}
		switch {
		case c.is(flagPlaceholder):
		case open && (c.is(flagHardBreak) || c.is(flagControl)):
			key.face = cur.face
		case open && common && cur.face != nil && cur.face.HasGlyph(r):
			key.face = cur.face
		default:
			fnt := span.Style.font("")
			face, ok := s.fonts.ResolveFont(span.Style.Families, fnt, r)
			if !ok && !c.is(flagHardBreak) && !c.is(flagControl) && !c.is(flagWhitespace) {
				c.flags |= flagTofu
				tofu++
			}
			if !ok {
				face, _ = s.fonts.PrimaryFont(span.Style.Families, fnt)
			}
			key.face = face
		}
		if open && key == cur {
			c.run = len(st.runs) - 1
			st.runs[c.run].end = i + 1
			continue
		}
		cur = key
		placeholder := -1
		if c.is(flagPlaceholder) {
			placeholder = span.Placeholder
		}
		c.run = len(st.runs)
		st.runs = append(st.runs, run{
			start:       i,
			end:         i + 1,
			level:       key.level,
			span:        key.span,
			script:      key.script,
			face:        key.face,
			size:        fixedSize(span.Style.Size),
			placeholder: placeholder,
		})
	}
	if tofu > 0 {
		s.logger.Warn("no face covers clusters, drawing missing glyphs", "clusters", tofu)
	}
}

// shapeRuns shapes every text run and assigns cluster widths.
func (s *shaper) shapeRuns(st *shapedText, text []rune) {
	shapeTxt := shapingText(text)
	for ri := range st.runs {
		r := &st.runs[ri]
		style := st.spans.spans[r.span].Style
		if r.placeholder >= 0 {
			p := st.spans.placeholders[r.placeholder]
			for ci := r.start; ci < r.end; ci++ {
				st.clusters[ci].width = f32.ToFixed(placeholderSize(p.Width))
			}
			continue
		}
		out := s.engine.Shape(ShapeInput{
			Text:     shapeTxt,
			Start:    st.clusters[r.start].start,
			End:      st.clusters[r.end-1].end,
			Face:     r.face,
			Size:     r.size,
			RTL:      r.rtl(),
			Script:   r.script,
			Language: language.NewLanguage(style.Locale),
		})
		st.attachGlyphs(r, out.Glyphs)
		r.setMetrics(out.Ascent, out.Descent, out.Gap, style)
		letter := f32.ToFixed(style.LetterSpacing)
		word := f32.ToFixed(style.WordSpacing)
		for ci := r.start; ci < r.end; ci++ {
			c := &st.clusters[ci]
			if c.is(flagHardBreak) || c.is(flagControl) {
				continue
			}
			c.width += letter
			if c.is(flagWhitespace) {
				c.width += word
			}
		}
	}
}

// setMetrics derives the line metrics of a run from font extents.
func (r *run) setMetrics(ascent, descent, gap fixed.Int26_6, style TextStyle) {
	r.tightAscent, r.tightDescent = ascent, descent
	r.rawAscent, r.rawDescent = ascent, descent+gap
	r.ascent, r.descent = r.rawAscent, r.rawDescent
	if !style.HeightOverride || ascent+descent <= 0 {
		return
	}
	total := f32.ToFixed(style.Size * style.Height)
	r.ascent = fixed.Int26_6(int64(ascent) * int64(total) / int64(ascent+descent))
	r.descent = total - r.ascent
}

// attachGlyphs distributes the advances of shaped glyphs over the
// clusters of r. A shaping cluster covering several graphemes, such as a
// ligature, has its advance split evenly between them. Hard breaks and
// bidi controls take no space and draw nothing.
func (st *shapedText) attachGlyphs(r *run, glyphs []ShapedGlyph) {
	runEnd := st.clusters[r.end-1].end
	var starts []int
	for _, g := range glyphs {
		starts = append(starts, g.Cluster)
	}
	slices.Sort(starts)
	starts = compact(starts)
	// anchor maps a shaping cluster start to the cluster its glyphs are
	// drawn at, or -1.
	anchor := make(map[int]int, len(starts))
	advance := make(map[int]fixed.Int26_6, len(starts))
	for _, g := range glyphs {
		advance[g.Cluster] += g.XAdvance
	}
	for k, start := range starts {
		end := runEnd
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		if start < 0 || start >= len(st.runeCluster) || end <= start {
			anchor[start] = -1
			continue
		}
		first, last := st.runeCluster[start], st.runeCluster[end-1]
		var visible []int
		for ci := first; ci <= last; ci++ {
			c := st.clusters[ci]
			if !c.is(flagHardBreak) && !c.is(flagControl) {
				visible = append(visible, ci)
			}
		}
		if len(visible) == 0 {
			anchor[start] = -1
			continue
		}
		adv := advance[start]
		share := adv / fixed.Int26_6(len(visible))
		for _, ci := range visible {
			st.clusters[ci].width += share
		}
		st.clusters[visible[0]].width += adv - share*fixed.Int26_6(len(visible))
		if r.rtl() {
			anchor[start] = visible[len(visible)-1]
		} else {
			anchor[start] = visible[0]
		}
	}
	r.glyphs = make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		a := anchor[g.Cluster]
		if a < 0 {
			continue
		}
		r.glyphs = append(r.glyphs, glyph{
			id:       g.ID,
			cluster:  a,
			xAdvance: g.XAdvance,
			xOffset:  g.XOffset,
			yOffset:  g.YOffset,
			bounds:   g.Bounds,
		})
	}
}

func compact(s []int) []int {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// emptyRun returns a run carrying the metrics of style's primary face,
// used for lines without text.
func (s *shaper) emptyRun(style TextStyle) run {
	r := run{size: fixedSize(style.Size), placeholder: -1}
	face, ok := s.fonts.PrimaryFont(style.Families, style.font(""))
	var m font.Metrics
	if ok {
		r.face = face
		m = face.Metrics(r.size)
	} else {
		m = font.Metrics{Ascent: r.size * 4 / 5, Descent: r.size / 5}
	}
	r.setMetrics(m.Ascent, m.Descent, m.LineGap, style)
	return r
}

// intrinsicWidths computes the widest unbreakable sequence and the widest
// hard line, both excluding trailing whitespace.
func (st *shapedText) intrinsicWidths() {
	var (
		x                      fixed.Int26_6
		wordStart, wordContent fixed.Int26_6
		lineStart, lineContent fixed.Int26_6
	)
	for i, c := range st.clusters {
		x += c.width
		if !c.is(flagWhitespace) && !c.is(flagHardBreak) {
			wordContent = x
			lineContent = x
		}
		last := i == len(st.clusters)-1
		if c.is(flagSoftBreak) || c.is(flagHardBreak) || last {
			st.minIntrinsic = max(st.minIntrinsic, wordContent-wordStart)
			wordStart, wordContent = x, x
		}
		if c.is(flagHardBreak) || last {
			st.maxIntrinsic = max(st.maxIntrinsic, lineContent-lineStart)
			lineStart, lineContent = x, x
		}
	}
}

// check panics if the clusters do not tile the text or a run is empty.
func (st *shapedText) check() {
	pos := 0
	for i, c := range st.clusters {
		if c.start != pos || c.end <= c.start {
			panic(fmt.Errorf("cluster %d [%d,%d) does not continue at %d", i, c.start, c.end, pos))
		}
		pos = c.end
	}
	if pos != len(st.text) {
		panic(fmt.Errorf("clusters end at %d, text length %d", pos, len(st.text)))
	}
	next := 0
	for i, r := range st.runs {
		if r.start != next || r.end <= r.start {
			panic(fmt.Errorf("run %d [%d,%d) does not continue at cluster %d", i, r.start, r.end, next))
		}
		next = r.end
	}
}

// clusterAt returns the index of the cluster containing rune pos.
func (st *shapedText) clusterAt(pos int) int {
	return st.runeCluster[pos]
}
