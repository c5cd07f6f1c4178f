// SPDX-License-Identifier: Unlicense OR MIT

// Package pdfcanvas paints laid out paragraphs into a single page PDF
// using github.com/tdewolff/canvas.
package pdfcanvas

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/text"
)

// PxToMM converts the pixel units of paragraph layouts to the millimeters
// of the page, at 96 pixels per inch.
const PxToMM = 25.4 / 96

// Canvas is a text.Canvas drawing onto a PDF page. Coordinates are in
// pixels with the origin at the top left corner.
type Canvas struct {
	width, height float64
	c             *canvas.Canvas
	ctx           *canvas.Context
}

var _ text.Canvas = (*Canvas)(nil)

// New returns a blank page of the given size in pixels.
func New(width, height float32) *Canvas {
	w, h := float64(width)*PxToMM, float64(height)*PxToMM
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	return &Canvas{width: w, height: h, c: c, ctx: ctx}
}

// PaintRun draws the background, shadows, glyphs and decorations of r.
// Glyphs are drawn from their outlines when the run face has them, and as
// filled ink boxes otherwise. Shadow blur is not rendered.
func (c *Canvas) PaintRun(r text.PaintRun) {
	ctx := c.ctx
	ctx.SetStrokeColor(canvas.Transparent)
	if r.Background.A != 0 {
		c.fillRect(r.Bounds, r.Background)
	}
	for _, sh := range r.Shadows {
		c.drawGlyphs(r, sh.Offset, sh.Color)
	}
	c.drawGlyphs(r, f32.Point{}, r.Foreground)
	if r.Decoration.Lines != 0 {
		c.drawDecoration(r.Decoration)
	}
}

func (c *Canvas) drawGlyphs(r text.PaintRun, off f32.Point, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	var face *font.Face
	if r.Face != nil {
		face = r.Face.Face()
	}
	c.ctx.SetFillColor(col)
	c.ctx.SetStrokeColor(canvas.Transparent)
	for i, g := range r.Glyphs {
		pos := r.Positions[i].Add(off)
		if p := glyphPath(face, g, r.Size); p != nil {
			c.ctx.DrawPath(mm(pos.X), mm(pos.Y), p)
			continue
		}
		c.fillRect(r.GlyphBounds[i].Add(off), col)
	}
}

// glyphPath returns the outline of glyph g scaled to size pixels per em,
// relative to its baseline origin, or nil if the face has no outline for it.
func glyphPath(face *font.Face, g text.GlyphID, size float32) *canvas.Path {
	if face == nil || face.Upem() == 0 {
		return nil
	}
	outline, ok := face.GlyphData(font.GID(g)).(font.GlyphOutline)
	if !ok || len(outline.Segments) == 0 {
		return nil
	}
	scale := float64(size) / float64(face.Upem()) * PxToMM
	pt := func(p opentype.SegmentPoint) (float64, float64) {
		// Font units grow upwards.
		return float64(p.X) * scale, -float64(p.Y) * scale
	}
	p := &canvas.Path{}
	for _, seg := range outline.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			if !p.Empty() {
				p.Close()
			}
			p.MoveTo(pt(seg.Args[0]))
		case opentype.SegmentOpLineTo:
			p.LineTo(pt(seg.Args[0]))
		case opentype.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			p.QuadTo(x1, y1, x2, y2)
		case opentype.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			p.CubeTo(x1, y1, x2, y2, x3, y3)
		default:
			panic("unsupported segment op")
		}
	}
	p.Close()
	return p
}

func (c *Canvas) drawDecoration(d text.DecorationSpec) {
	ctx := c.ctx
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(d.Color)
	ctx.SetStrokeWidth(mm(d.Thickness))
	switch d.Style {
	case text.Dotted:
		ctx.SetDashes(0, mm(d.Thickness), mm(d.Thickness))
	case text.Dashed:
		ctx.SetDashes(0, mm(3*d.Thickness), mm(2*d.Thickness))
	default:
		ctx.SetDashes(0)
	}
	for _, line := range []struct {
		flag text.Decoration
		y    float32
	}{
		{text.Underline, d.Underline},
		{text.Overline, d.Overline},
		{text.LineThrough, d.LineThrough},
	} {
		if d.Lines&line.flag == 0 {
			continue
		}
		switch d.Style {
		case text.Double:
			gap := d.Thickness * 1.5
			c.hline(d.X0, d.X1, line.y-gap/2)
			c.hline(d.X0, d.X1, line.y+gap/2)
		case text.Wavy:
			c.wave(d.X0, d.X1, line.y, d.Thickness)
		default:
			c.hline(d.X0, d.X1, line.y)
		}
	}
	ctx.SetDashes(0)
}

func (c *Canvas) hline(x0, x1, y float32) {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(mm(x1-x0), 0)
	c.ctx.DrawPath(mm(x0), mm(y), p)
}

// wave strokes a wavy line of amplitude 1.5 thickness, one period every
// 4 thickness.
func (c *Canvas) wave(x0, x1, y, thickness float32) {
	period := float64(4 * thickness)
	amp := 1.5 * float64(thickness)
	width := float64(x1 - x0)
	if period <= 0 || width <= 0 {
		return
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	sign := -1.0
	for x := 0.0; x < width; x += period / 2 {
		end := math.Min(x+period/2, width)
		p.QuadTo((x+end)/2*PxToMM, sign*amp*PxToMM, end*PxToMM, 0)
		sign = -sign
	}
	c.ctx.DrawPath(mm(x0), mm(y), p)
}

func (c *Canvas) fillRect(r f32.Rectangle, col color.NRGBA) {
	if r.Empty() {
		return
	}
	c.ctx.SetFillColor(col)
	c.ctx.SetStrokeColor(canvas.Transparent)
	c.ctx.DrawPath(mm(r.Min.X), mm(r.Min.Y), canvas.Rectangle(mm(r.Dx()), mm(r.Dy())))
}

// WriteTo writes the page as a PDF document.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	doc := pdf.New(cw, c.width, c.height, nil)
	c.c.RenderTo(doc)
	if err := doc.Close(); err != nil {
		return cw.n, fmt.Errorf("pdfcanvas: writing PDF: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}

func mm(px float32) float64 {
	return float64(px) * PxToMM
}
