// SPDX-License-Identifier: Unlicense OR MIT

/*
Package font provides type describing font faces attributes.
*/
package font

import (
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"
)

// A FontFace is a Font and a matching Face.
type FontFace struct {
	Font Font
	Face Face
}

// Style is the font style, also known as slant.
type Style int

// Weight is a font weight, in CSS units subtracted 400 so the zero value
// is normal text weight.
type Weight int

// Width is the font stretch as a percentage of normal width, subtracted 100
// so the zero value is the normal width.
type Width int

// Font specify a particular typeface variant, style, weight and width.
type Font struct {
	Typeface Typeface
	Variant  Variant
	Style    Style
	// Weight is the text weight. If zero, Normal is used instead.
	Weight Weight
	// Width is the text stretch. If zero, NormalWidth is used instead.
	Width Width
}

// Metrics describe the vertical extents of a face at a particular size.
// All values are positive distances from the baseline.
type Metrics struct {
	Ascent  fixed.Int26_6
	Descent fixed.Int26_6
	LineGap fixed.Int26_6
}

// Face is an opaque handle to a typeface. Faces are shared between the runs
// that reference them and are never owned by a layout.
type Face interface {
	// Face returns the shaping face, or nil if the face has no
	// OpenType representation (synthetic faces used for tests or tofu).
	Face() *font.Face
	// HasGlyph reports whether the face maps r to a glyph.
	HasGlyph(r rune) bool
	// Metrics returns the face extents scaled to ppem.
	Metrics(ppem fixed.Int26_6) Metrics
}

// Typeface identifies a particular typeface design. The empty
// string denotes the default typeface.
type Typeface string

// Variant denotes a typeface variant such as "Mono" or "Smallcaps".
type Variant string

const (
	Regular Style = iota
	Italic
	Oblique
)

const (
	Thin       Weight = -300
	ExtraLight Weight = -200
	Light      Weight = -100
	Normal     Weight = 0
	Medium     Weight = 100
	SemiBold   Weight = 200
	Bold       Weight = 300
	ExtraBold  Weight = 400
	Black      Weight = 500
)

const (
	UltraCondensed Width = -50
	ExtraCondensed Width = -38
	Condensed      Width = -25
	SemiCondensed  Width = -13
	NormalWidth    Width = 0
	SemiExpanded   Width = 13
	Expanded       Width = 25
	ExtraExpanded  Width = 50
	UltraExpanded  Width = 100
)

func (s Style) String() string {
	switch s {
	case Regular:
		return "Regular"
	case Italic:
		return "Italic"
	case Oblique:
		return "Oblique"
	default:
		panic("invalid Style")
	}
}

func (w Weight) String() string {
	switch w {
	case Thin:
		return "Thin"
	case ExtraLight:
		return "ExtraLight"
	case Light:
		return "Light"
	case Normal:
		return "Normal"
	case Medium:
		return "Medium"
	case SemiBold:
		return "SemiBold"
	case Bold:
		return "Bold"
	case ExtraBold:
		return "ExtraBold"
	case Black:
		return "Black"
	default:
		panic("invalid Weight")
	}
}
