// SPDX-License-Identifier: Unlicense OR MIT

// Package opentype implements font faces for OpenType files, backed by
// the go-text typesetting font loader.
//
// The returned faces carry no style metadata of their own; callers pair
// them with a font.Font description when registering them in a text
// collection.
package opentype

import (
	"bytes"
	"fmt"

	giofont "gioui.org/paragraph/font"
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"
)

// Face is a parsed OpenType font. The underlying shaping face is not safe for
// concurrent use; a Face should be used by one paragraph engine at a time.
type Face struct {
	face *font.Face
}

// Parse constructs a Face from source bytes.
func Parse(src []byte) (Face, error) {
	face, err := font.ParseTTF(bytes.NewReader(src))
	if err != nil {
		return Face{}, fmt.Errorf("failed parsing truetype font: %w", err)
	}
	return Face{face: face}, nil
}

// ParseCollection parse an Opentype font file, with support for collections.
// Single font files are supported, returning a slice with length 1.
// The Font of each returned FontFace is the zero value and should be filled
// in by the caller.
func ParseCollection(src []byte) ([]giofont.FontFace, error) {
	faces, err := font.ParseTTC(bytes.NewReader(src))
	if err != nil {
		if single, serr := Parse(src); serr == nil {
			return []giofont.FontFace{{Face: single}}, nil
		}
		return nil, fmt.Errorf("failed parsing font collection: %w", err)
	}
	out := make([]giofont.FontFace, len(faces))
	for i, f := range faces {
		out[i] = giofont.FontFace{Face: Face{face: f}}
	}
	return out, nil
}

// Face returns the shaping face.
func (f Face) Face() *font.Face {
	return f.face
}

// HasGlyph reports whether the font's cmap maps r.
func (f Face) HasGlyph(r rune) bool {
	if f.face == nil {
		return false
	}
	_, ok := f.face.NominalGlyph(r)
	return ok
}

// Metrics returns the horizontal font extents scaled to ppem.
func (f Face) Metrics(ppem fixed.Int26_6) giofont.Metrics {
	if f.face == nil {
		return giofont.Metrics{}
	}
	upem := float32(f.face.Upem())
	if upem == 0 {
		upem = 1000
	}
	ext, ok := f.face.FontHExtents()
	if !ok {
		// Fall back to a conventional 80/20 split of the em box.
		return giofont.Metrics{
			Ascent:  ppem * 4 / 5,
			Descent: ppem / 5,
		}
	}
	scale := float32(ppem) / upem
	return giofont.Metrics{
		Ascent:  fixed.Int26_6(ext.Ascender * scale),
		Descent: fixed.Int26_6(-ext.Descender * scale),
		LineGap: fixed.Int26_6(ext.LineGap * scale),
	}
}
