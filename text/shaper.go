// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"gioui.org/paragraph/font"
)

// GlyphID is a glyph index within the face that shaped it.
type GlyphID uint32

// ShapeInput is a contiguous span of text in one face, size, script and
// direction.
type ShapeInput struct {
	// Text is the whole paragraph, available to the shaper as context.
	Text []rune
	// Start and End delimit the runes to shape.
	Start, End int
	Face       font.Face
	Size       fixed.Int26_6
	RTL        bool
	Script     language.Script
	Language   language.Language
}

// ShapedGlyph is a positioned glyph.
type ShapedGlyph struct {
	ID GlyphID
	// Cluster is the index in ShapeInput.Text of the first rune of the
	// shaping cluster this glyph belongs to.
	Cluster  int
	XAdvance fixed.Int26_6
	// XOffset and YOffset displace the glyph from its dot. YOffset grows
	// upwards.
	XOffset, YOffset fixed.Int26_6
	// Bounds is the ink box relative to the dot, with Y growing downwards.
	Bounds fixed.Rectangle26_6
}

// ShapedRun is the output of shaping one input.
type ShapedRun struct {
	// Glyphs are in visual order, left to right.
	Glyphs  []ShapedGlyph
	Advance fixed.Int26_6
	// Ascent and Descent are positive distances from the baseline. Gap is
	// the recommended line gap.
	Ascent, Descent, Gap fixed.Int26_6
}

// ShapingEngine converts text into positioned glyphs. Implementations
// must be pure functions of their input.
type ShapingEngine interface {
	Shape(in ShapeInput) ShapedRun
}

// HarfbuzzShaper shapes text with the go-text HarfBuzz port. Inputs whose
// face has no OpenType representation are shaped with synthetic glyphs.
// The zero value is ready to use. It is not safe for concurrent use.
type HarfbuzzShaper struct {
	shaper shaping.HarfbuzzShaper
}

func (s *HarfbuzzShaper) Shape(in ShapeInput) ShapedRun {
	if in.Face == nil || in.Face.Face() == nil {
		return synthesize(in)
	}
	dir := di.DirectionLTR
	if in.RTL {
		dir = di.DirectionRTL
	}
	out := s.shaper.Shape(shaping.Input{
		Text:      in.Text,
		RunStart:  in.Start,
		RunEnd:    in.End,
		Direction: dir,
		Face:      in.Face.Face(),
		Size:      in.Size,
		Script:    in.Script,
		Language:  in.Language,
	})
	run := ShapedRun{
		Glyphs:  make([]ShapedGlyph, 0, len(out.Glyphs)),
		Advance: out.Advance,
		Ascent:  out.LineBounds.Ascent,
		Descent: -out.LineBounds.Descent,
		Gap:     out.LineBounds.Gap,
	}
	for _, g := range out.Glyphs {
		// To better understand how to calculate the bounding box, see here:
		// https://freetype.org/freetype2/docs/glyphs/glyph-metrics-3.svg
		var bounds fixed.Rectangle26_6
		bounds.Min.X = g.XBearing
		bounds.Min.Y = -g.YBearing
		bounds.Max = bounds.Min.Add(fixed.Point26_6{X: g.Width, Y: -g.Height})
		run.Glyphs = append(run.Glyphs, ShapedGlyph{
			ID:       GlyphID(g.GlyphID),
			Cluster:  g.ClusterIndex,
			XAdvance: g.XAdvance,
			XOffset:  g.XOffset,
			YOffset:  g.YOffset,
			Bounds:   bounds,
		})
	}
	return run
}

// synthesize shapes in with one box glyph per rune, using the metrics of
// the face if there is one. Glyph 0 is the missing glyph in every font.
func synthesize(in ShapeInput) ShapedRun {
	var m font.Metrics
	if in.Face != nil {
		m = in.Face.Metrics(in.Size)
	} else {
		m = font.Metrics{Ascent: in.Size * 4 / 5, Descent: in.Size / 5}
	}
	adv := in.Size / 2
	run := ShapedRun{
		Glyphs:  make([]ShapedGlyph, 0, in.End-in.Start),
		Ascent:  m.Ascent,
		Descent: m.Descent,
		Gap:     m.LineGap,
	}
	for i := in.Start; i < in.End; i++ {
		run.Glyphs = append(run.Glyphs, ShapedGlyph{
			Cluster:  i,
			XAdvance: adv,
			Bounds: fixed.Rectangle26_6{
				Min: fixed.Point26_6{Y: -m.Ascent},
				Max: fixed.Point26_6{X: adv, Y: m.Descent},
			},
		})
		run.Advance += adv
	}
	if in.RTL {
		for i, j := 0, len(run.Glyphs)-1; i < j; i, j = i+1, j-1 {
			run.Glyphs[i], run.Glyphs[j] = run.Glyphs[j], run.Glyphs[i]
		}
	}
	return run
}
