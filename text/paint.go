// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"image/color"

	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font"
)

// Canvas receives the painted runs of a paragraph.
type Canvas interface {
	PaintRun(r PaintRun)
}

// PaintRun is a visual piece of a line in a single style. Coordinates are
// absolute, with Y growing downwards.
type PaintRun struct {
	Glyphs []GlyphID
	// Positions holds the baseline origin of every glyph.
	Positions []f32.Point
	// GlyphBounds holds the ink box of every glyph.
	GlyphBounds []f32.Rectangle
	Face        font.Face
	Size        float32
	Foreground  color.NRGBA
	Background  color.NRGBA
	Shadows     []Shadow
	Decoration  DecorationSpec
	// Origin is the left end of the baseline of the run.
	Origin f32.Point
	// Bounds is the box of the run from its ascent to its descent.
	Bounds    f32.Rectangle
	Direction Direction
	Ellipsis  bool
}

// DecorationSpec is the geometry of the decoration lines of a run. The
// line offsets are absolute Y coordinates of the line centers.
type DecorationSpec struct {
	Lines     Decoration
	Style     DecorationStyle
	Color     color.NRGBA
	Thickness float32
	Underline float32
	Overline  float32
	// LineThrough is the center of the strike line.
	LineThrough float32
	X0, X1      float32
}

// Paint draws the laid out paragraph with its top left corner at (x, y).
// Placeholders are not drawn. Paint does nothing before Layout.
func (p *Paragraph) Paint(c Canvas, x, y float32) {
	if !p.laidOut() {
		return
	}
	res := p.res
	st := res.st
	origin := fixed.Point26_6{X: f32.ToFixed(x), Y: f32.ToFixed(y)}
	for li := range res.lines {
		l := &res.lines[li]
		// Pen position of every cluster on the line.
		pen := make(map[int]fixed.Int26_6)
		for _, cp := range res.positions(l) {
			pen[cp.cluster] = cp.x0
		}
		for si := range l.segments {
			sg := &l.segments[si]
			if sg.run < 0 {
				c.PaintRun(res.paintEllipsis(l, sg, origin))
				continue
			}
			r := &st.runs[sg.run]
			if r.placeholder >= 0 || sg.start >= l.contentEnd {
				continue
			}
			style := st.spans.spans[r.span].Style
			pr := res.paintRun(l, sg, r.ascent, r.tightAscent, r.tightDescent, style, origin)
			pr.Face = r.face
			pr.Size = f32.FromFixed(r.size)
			for _, g := range r.glyphs {
				if g.cluster < sg.start || g.cluster >= sg.end {
					continue
				}
				gx := origin.X + l.x + pen[g.cluster]
				pen[g.cluster] += g.xAdvance
				pr.appendGlyph(g.id, gx+g.xOffset, origin.Y+l.baseline-g.yOffset, g.bounds)
			}
			c.PaintRun(pr)
		}
	}
}

// paintEllipsis builds the paint run of the ellipsis segment of l.
func (res *LayoutResult) paintEllipsis(l *line, sg *segment, origin fixed.Point26_6) PaintRun {
	e := l.ellipsis
	style := res.st.spans.spans[e.span].Style
	pr := res.paintRun(l, sg, e.ascent, e.ascent, e.descent, style, origin)
	pr.Face = e.face
	pr.Size = f32.FromFixed(e.size)
	pr.Ellipsis = true
	pen := origin.X + l.x + sg.x
	for _, g := range e.glyphs {
		pr.appendGlyph(g.ID, pen+g.XOffset, origin.Y+l.baseline-g.YOffset, g.Bounds)
		pen += g.XAdvance
	}
	return pr
}

// paintRun fills in the style and geometry shared by the glyphs of a
// segment.
func (res *LayoutResult) paintRun(l *line, sg *segment, ascent, tightAscent, tightDescent fixed.Int26_6, style TextStyle, origin fixed.Point26_6) PaintRun {
	x0 := origin.X + l.x + sg.x
	x1 := x0 + sg.width
	baseline := origin.Y + l.baseline
	dir := LTR
	if sg.rtl() {
		dir = RTL
	}
	pr := PaintRun{
		Foreground: style.Color,
		Background: style.Background,
		Shadows:    style.Shadows,
		Origin:     f32.Pt(f32.FromFixed(x0), f32.FromFixed(baseline)),
		Bounds: f32.Rect(
			f32.FromFixed(x0), f32.FromFixed(baseline-tightAscent),
			f32.FromFixed(x1), f32.FromFixed(baseline+tightDescent),
		),
		Direction: dir,
	}
	if style.Decoration != 0 {
		thickness := max(style.Size/14, 1) * style.DecorationThickness
		b := f32.FromFixed(baseline)
		pr.Decoration = DecorationSpec{
			Lines:       style.Decoration,
			Style:       style.DecorationStyle,
			Color:       style.DecorationColor,
			Thickness:   thickness,
			Underline:   b + style.Size/10 + thickness/2,
			Overline:    b - f32.FromFixed(tightAscent) + thickness/2,
			LineThrough: b - f32.FromFixed(ascent)*0.3,
			X0:          f32.FromFixed(x0),
			X1:          f32.FromFixed(x1),
		}
	}
	return pr
}

func (pr *PaintRun) appendGlyph(id GlyphID, x, y fixed.Int26_6, bounds fixed.Rectangle26_6) {
	pr.Glyphs = append(pr.Glyphs, id)
	pr.Positions = append(pr.Positions, f32.Pt(f32.FromFixed(x), f32.FromFixed(y)))
	pr.GlyphBounds = append(pr.GlyphBounds, f32.Rect(
		f32.FromFixed(x+bounds.Min.X), f32.FromFixed(y+bounds.Min.Y),
		f32.FromFixed(x+bounds.Max.X), f32.FromFixed(y+bounds.Max.Y),
	))
}
