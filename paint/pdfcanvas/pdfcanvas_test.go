// SPDX-License-Identifier: Unlicense OR MIT

package pdfcanvas

import (
	"bytes"
	"image/color"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font/gofont"
	"gioui.org/paragraph/font/opentype"
	"gioui.org/paragraph/text"
)

func TestWritePDF(t *testing.T) {
	b := text.NewBuilder(text.ParagraphStyle{TextStyle: text.TextStyle{Size: 16}}, text.NewCollection(gofont.Regular()...))
	b.AddText("Hello, ")
	b.PushStyle(text.TextStyle{
		Background:      color.NRGBA{R: 0xff, G: 0xff, A: 0xff},
		Decoration:      text.Underline | text.LineThrough,
		DecorationStyle: text.Wavy,
		Shadows:         []text.Shadow{{Color: color.NRGBA{A: 0x40}, Offset: f32.Pt(1, 1)}},
	})
	b.AddText("world")
	b.Pop()
	p := b.Build()
	p.Layout(200)

	c := New(200, p.Height())
	p.Paint(c, 0, 0)
	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
}

func TestDecorationStyles(t *testing.T) {
	for _, style := range []text.DecorationStyle{text.Solid, text.Double, text.Dotted, text.Dashed, text.Wavy} {
		c := New(100, 100)
		c.PaintRun(text.PaintRun{
			Foreground: color.NRGBA{A: 0xff},
			Decoration: text.DecorationSpec{
				Lines:     text.Underline | text.Overline,
				Style:     style,
				Color:     color.NRGBA{R: 0xff, A: 0xff},
				Thickness: 1,
				Underline: 20,
				Overline:  5,
				X0:        10,
				X1:        60,
			},
		})
		var buf bytes.Buffer
		if _, err := c.WriteTo(&buf); err != nil {
			t.Errorf("style %d: %v", style, err)
		}
	}
}

func TestGlyphPath(t *testing.T) {
	face, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	gid, ok := face.Face().NominalGlyph('H')
	if !ok {
		t.Fatal("no glyph for H")
	}
	p := glyphPath(face.Face(), text.GlyphID(gid), 20)
	if p == nil || p.Empty() {
		t.Fatal("empty outline for H")
	}
	if glyphPath(nil, text.GlyphID(gid), 20) != nil {
		t.Error("outline for a face without data")
	}
}

func TestTofuBoxes(t *testing.T) {
	b := text.NewBuilder(text.ParagraphStyle{}, text.NewCollection())
	b.AddText("no fonts")
	p := b.Build()
	p.Layout(100)
	c := New(100, 40)
	p.Paint(c, 0, 0)
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
}
