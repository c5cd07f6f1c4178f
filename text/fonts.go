// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"gioui.org/paragraph/font"
)

// FontCollection resolves fonts for the layout engine.
type FontCollection interface {
	// ResolveFont returns a face for rune r, trying the families in order.
	// It reports false if no face covers r.
	ResolveFont(families []font.Typeface, fnt font.Font, r rune) (font.Face, bool)
	// PrimaryFont returns the face used for metrics when a style has no
	// text, and for missing glyphs.
	PrimaryFont(families []font.Typeface, fnt font.Font) (font.Face, bool)
	// Version changes whenever the result of a resolution may change.
	Version() uint64
}

// Collection is a FontCollection of registered faces. Faces are
// prioritized in the order they are added, and the typeface of the first
// face is the default typeface.
//
// With font fallback enabled, a rune missing from every requested family is
// resolved to any registered face covering it.
type Collection struct {
	faces    []font.FontFace
	fallback bool
	version  uint64
}

// NewCollection returns a collection of faces with fallback enabled.
func NewCollection(faces ...font.FontFace) *Collection {
	c := &Collection{fallback: true}
	c.Add(faces...)
	return c
}

// Add registers faces.
func (c *Collection) Add(faces ...font.FontFace) {
	c.faces = append(c.faces, faces...)
	c.version++
}

// EnableFontFallback allows runes to resolve to faces outside the requested
// families.
func (c *Collection) EnableFontFallback() {
	if !c.fallback {
		c.fallback = true
		c.version++
	}
}

// DisableFontFallback restricts resolution to the requested families.
func (c *Collection) DisableFontFallback() {
	if c.fallback {
		c.fallback = false
		c.version++
	}
}

// FontFallbackEnabled reports whether fallback is enabled.
func (c *Collection) FontFallbackEnabled() bool {
	return c.fallback
}

func (c *Collection) Version() uint64 {
	return c.version
}

// families returns the requested families, or the default typeface.
func (c *Collection) families(families []font.Typeface) []font.Typeface {
	if len(families) > 0 || len(c.faces) == 0 {
		return families
	}
	return []font.Typeface{c.faces[0].Font.Typeface}
}

func (c *Collection) ResolveFont(families []font.Typeface, fnt font.Font, r rune) (font.Face, bool) {
	for _, tf := range c.families(families) {
		fnt.Typeface = tf
		if face, ok := c.faceForStyle(fnt, func(f font.FontFace) bool { return f.Face.HasGlyph(r) }); ok {
			return face.Face, true
		}
	}
	if !c.fallback {
		return nil, false
	}
	var (
		match font.FontFace
		found bool
	)
	for _, f := range c.faces {
		if !f.Face.HasGlyph(r) {
			continue
		}
		if !found || closer(fnt, f.Font, match.Font) {
			match, found = f, true
		}
	}
	return match.Face, found
}

func (c *Collection) PrimaryFont(families []font.Typeface, fnt font.Font) (font.Face, bool) {
	for _, tf := range c.families(families) {
		fnt.Typeface = tf
		if face, ok := c.faceForStyle(fnt, nil); ok {
			return face.Face, true
		}
	}
	if c.fallback && len(c.faces) > 0 {
		return c.faces[0].Face, true
	}
	return nil, false
}

// faceForStyle returns the closest face to fnt within its typeface and
// variant that satisfies accept, preferring the requested style and
// falling back to the regular style.
func (c *Collection) faceForStyle(fnt font.Font, accept func(font.FontFace) bool) (font.FontFace, bool) {
	if f, ok := c.closestFace(fnt, accept); ok {
		return f, true
	}
	if fnt.Style != font.Regular {
		fnt.Style = font.Regular
		return c.closestFace(fnt, accept)
	}
	return font.FontFace{}, false
}

// closestFace returns the face closest to lookup by weight and then
// width, among faces of the same typeface, variant and style.
func (c *Collection) closestFace(lookup font.Font, accept func(font.FontFace) bool) (font.FontFace, bool) {
	found := false
	var match font.FontFace
	for _, cf := range c.faces {
		f := cf.Font
		if f.Typeface != lookup.Typeface || f.Variant != lookup.Variant || f.Style != lookup.Style {
			continue
		}
		if accept != nil && !accept(cf) {
			continue
		}
		if f == lookup {
			return cf, true
		}
		if !found || closer(lookup, f, match.Font) {
			found = true
			match = cf
		}
	}
	return match, found
}

// closer reports whether a is a better match than b for lookup. Ties in
// weight prefer the lighter font.
func closer(lookup, a, b font.Font) bool {
	if a.Style == lookup.Style && b.Style != lookup.Style {
		return true
	}
	if a.Style != lookup.Style && b.Style == lookup.Style {
		return false
	}
	aDist := weightDistance(lookup.Weight, a.Weight)
	bDist := weightDistance(lookup.Weight, b.Weight)
	if aDist != bDist {
		return aDist < bDist
	}
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	return abs(int(lookup.Width-a.Width)) < abs(int(lookup.Width-b.Width))
}

// weightDistance returns the distance value between two font weights.
func weightDistance(wa font.Weight, wb font.Weight) int {
	// Avoid dealing with negative Weight values.
	a := int(wa) + 400
	b := int(wb) + 400
	return abs(a - b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
