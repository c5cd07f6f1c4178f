// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"encoding/binary"
	"hash/maphash"
	"image/color"
	"math"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font"
)

// Decoration is a set of text decoration lines.
type Decoration uint8

const (
	Underline Decoration = 1 << iota
	Overline
	LineThrough
)

// DecorationStyle is the stroke pattern of decoration lines.
type DecorationStyle uint8

const (
	Solid DecorationStyle = iota
	Double
	Dotted
	Dashed
	Wavy
)

// Shadow describes a text shadow painted beneath the glyphs of a run.
type Shadow struct {
	Color      color.NRGBA
	Offset     f32.Point
	BlurRadius float32
}

// TextStyle describes the appearance of a range of text. The zero value of
// every field means "inherit": the value is taken from the enclosing style
// scope, and finally from the paragraph default style. Inheritance is
// resolved when the paragraph is built, not when the style is pushed.
//
// A consequence of zero-value inheritance is that a nested style cannot
// reset an attribute to its zero value; a scope inside a bold scope with
// Weight Normal remains bold.
type TextStyle struct {
	// Families lists typefaces in order of preference.
	Families []font.Typeface
	// Size is the font size in pixels per em.
	Size   float32
	Style  font.Style
	Weight font.Weight
	Width  font.Width
	// Color is the foreground color.
	Color      color.NRGBA
	Background color.NRGBA
	Decoration Decoration
	// DecorationStyle is only inherited along with a non-zero Decoration.
	DecorationStyle DecorationStyle
	DecorationColor color.NRGBA
	// DecorationThickness multiplies the default decoration thickness.
	DecorationThickness float32
	// LetterSpacing is added after every grapheme cluster, in pixels.
	LetterSpacing float32
	// WordSpacing is added after every whitespace cluster, in pixels.
	WordSpacing float32
	// Height is the line height as a multiple of Size. It is only applied
	// when HeightOverride is set.
	Height         float32
	HeightOverride bool
	Shadows        []Shadow
	// Locale is a BCP 47 language tag.
	Locale string
}

// PlaceholderAlignment determines the vertical placement of a
// placeholder within its line.
type PlaceholderAlignment uint8

const (
	// AlignBaseline aligns the placeholder baseline, BaselineOffset below
	// its top, with the text baseline.
	AlignBaseline PlaceholderAlignment = iota
	// AboveBaseline places the bottom of the placeholder on the baseline.
	AboveBaseline
	// BelowBaseline places the top of the placeholder on the baseline.
	BelowBaseline
	// AlignTop aligns the placeholder top with the text ascent.
	AlignTop
	// AlignBottom aligns the placeholder bottom with the text descent.
	AlignBottom
	// AlignMiddle centers the placeholder on the middle of the text line.
	AlignMiddle
)

// Baseline selects which text baseline a placeholder aligns with.
type Baseline uint8

const (
	Alphabetic Baseline = iota
	Ideographic
)

// PlaceholderStyle describes an inline object that reserves space in a
// line without being shaped.
type PlaceholderStyle struct {
	Width, Height  float32
	Alignment      PlaceholderAlignment
	Baseline       Baseline
	BaselineOffset float32
}

// Alignment is the horizontal alignment of lines.
type Alignment uint8

const (
	// Start aligns lines to the start edge of the paragraph direction.
	Start Alignment = iota
	End
	Left
	Right
	Center
	// Justify stretches word gaps so lines fill the width. The last line
	// and lines ending in a hard break are aligned to Start.
	Justify
)

// Direction is a paragraph base direction.
type Direction uint8

const (
	// Auto detects the direction from the first strong character.
	Auto Direction = iota
	LTR
	RTL
)

// HeightBehavior controls vertical trimming of the paragraph.
type HeightBehavior uint8

const (
	// DisableFirstAscent applies unscaled font metrics to the ascent of the
	// first line.
	DisableFirstAscent HeightBehavior = 1 << iota
	// DisableLastDescent applies unscaled font metrics to the descent of the
	// last line.
	DisableLastDescent
	DisableAll = DisableFirstAscent | DisableLastDescent
)

// ParagraphStyle configures a paragraph.
type ParagraphStyle struct {
	// TextStyle is the default style of all text.
	TextStyle TextStyle
	Align     Alignment
	Direction Direction
	// MaxLines limits the number of lines. Zero means unlimited.
	MaxLines int
	// Ellipsis replaces truncated content on the last line when MaxLines
	// is exceeded. Empty means truncate without a marker.
	Ellipsis       string
	HeightBehavior HeightBehavior
	// ReplaceTabs replaces tab characters with spaces.
	ReplaceTabs bool
}

// Default values applied after inheritance.
const (
	defaultSize = 14
)

var defaultColor = color.NRGBA{A: 0xff}

func (a Alignment) String() string {
	switch a {
	case Start:
		return "Start"
	case End:
		return "End"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Center:
		return "Center"
	case Justify:
		return "Justify"
	default:
		panic("invalid Alignment")
	}
}

func (d Direction) String() string {
	switch d {
	case Auto:
		return "Auto"
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	default:
		panic("invalid Direction")
	}
}

// inherit returns s with every zero field taken from parent.
func (s TextStyle) inherit(parent TextStyle) TextStyle {
	if len(s.Families) == 0 {
		s.Families = parent.Families
	}
	if s.Size == 0 {
		s.Size = parent.Size
	}
	if s.Style == font.Regular {
		s.Style = parent.Style
	}
	if s.Weight == font.Normal {
		s.Weight = parent.Weight
	}
	if s.Width == font.NormalWidth {
		s.Width = parent.Width
	}
	if s.Color == (color.NRGBA{}) {
		s.Color = parent.Color
	}
	if s.Background == (color.NRGBA{}) {
		s.Background = parent.Background
	}
	if s.Decoration == 0 {
		s.Decoration = parent.Decoration
		s.DecorationStyle = parent.DecorationStyle
	}
	if s.DecorationColor == (color.NRGBA{}) {
		s.DecorationColor = parent.DecorationColor
	}
	if s.DecorationThickness == 0 {
		s.DecorationThickness = parent.DecorationThickness
	}
	if s.LetterSpacing == 0 {
		s.LetterSpacing = parent.LetterSpacing
	}
	if s.WordSpacing == 0 {
		s.WordSpacing = parent.WordSpacing
	}
	if s.Height == 0 {
		s.Height = parent.Height
		s.HeightOverride = parent.HeightOverride
	}
	if s.Shadows == nil {
		s.Shadows = parent.Shadows
	}
	if s.Locale == "" {
		s.Locale = parent.Locale
	}
	return s
}

// resolve fills the remaining zero fields with built-in defaults.
func (s TextStyle) resolve() TextStyle {
	if s.Size <= 0 || math.IsNaN(float64(s.Size)) {
		s.Size = defaultSize
	}
	if s.Color == (color.NRGBA{}) {
		s.Color = defaultColor
	}
	if s.DecorationColor == (color.NRGBA{}) {
		s.DecorationColor = s.Color
	}
	if s.DecorationThickness <= 0 {
		s.DecorationThickness = 1
	}
	if s.Height <= 0 {
		s.HeightOverride = false
	}
	return s
}

// font returns the font description for typeface tf.
func (s TextStyle) font(tf font.Typeface) font.Font {
	return font.Font{Typeface: tf, Style: s.Style, Weight: s.Weight, Width: s.Width}
}

// styleHasher writes style attributes into a maphash.
type styleHasher struct {
	h   *maphash.Hash
	buf [8]byte
}

func (w *styleHasher) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.h.Write(w.buf[:4])
}

func (w *styleHasher) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *styleHasher) str(s string) {
	w.u32(uint32(len(s)))
	w.h.WriteString(s)
}

func (w *styleHasher) color(c color.NRGBA) {
	w.h.Write([]byte{c.R, c.G, c.B, c.A})
}

func (w *styleHasher) textStyle(s TextStyle) {
	w.u32(uint32(len(s.Families)))
	for _, f := range s.Families {
		w.str(string(f))
	}
	w.f32(s.Size)
	w.u32(uint32(s.Style))
	w.u32(uint32(s.Weight))
	w.u32(uint32(s.Width))
	w.color(s.Color)
	w.color(s.Background)
	w.h.Write([]byte{byte(s.Decoration), byte(s.DecorationStyle)})
	w.color(s.DecorationColor)
	w.f32(s.DecorationThickness)
	w.f32(s.LetterSpacing)
	w.f32(s.WordSpacing)
	w.f32(s.Height)
	if s.HeightOverride {
		w.u32(1)
	} else {
		w.u32(0)
	}
	w.u32(uint32(len(s.Shadows)))
	for _, sh := range s.Shadows {
		w.color(sh.Color)
		w.f32(sh.Offset.X)
		w.f32(sh.Offset.Y)
		w.f32(sh.BlurRadius)
	}
	w.str(s.Locale)
}

func (w *styleHasher) placeholder(p PlaceholderStyle) {
	w.f32(p.Width)
	w.f32(p.Height)
	w.h.Write([]byte{byte(p.Alignment), byte(p.Baseline)})
	w.f32(p.BaselineOffset)
}

func (w *styleHasher) paragraph(p ParagraphStyle) {
	w.textStyle(p.TextStyle)
	w.h.Write([]byte{byte(p.Align), byte(p.Direction), byte(p.HeightBehavior)})
	w.u32(uint32(p.MaxLines))
	w.str(p.Ellipsis)
	if p.ReplaceTabs {
		w.u32(1)
	} else {
		w.u32(0)
	}
}
