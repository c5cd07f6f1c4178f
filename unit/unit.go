// SPDX-License-Identifier: Unlicense OR MIT

/*

Package unit implements device independent units and values.

A Value is a value with a Unit attached.

Device independent pixel, or dp, is the unit for sizes independent of
the underlying display device.

Scaled pixels, or sp, is the unit for text sizes. An sp is like dp with
text scaling applied.

Points, or pt, are typographic points of 1/72 inch, assuming 160 dp per
inch.

Finally, pixels, or px, is the unit of paragraph layouts. Values without
a unit are pixels.

*/
package unit

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a value with a unit.
type Value struct {
	V float32
	U Unit
}

// Unit represents a unit for a Value.
type Unit uint8

// Metric converts Values to pixels. The zero Metric converts dp and sp
// one to one.
type Metric struct {
	// PxPerDp is the device dependent density of device independent
	// pixels.
	PxPerDp float32
	// PxPerSp is the text scaling of sp units.
	PxPerSp float32
}

const (
	// UnitPx represent pixels of the layout.
	UnitPx Unit = iota
	// UnitDp represents device independent pixels.
	UnitDp
	// UnitSp is like UnitDp but for font sizes.
	UnitSp
	// UnitPt represents typographic points.
	UnitPt
)

// Px returns the Value for v pixels.
func Px(v float32) Value {
	return Value{V: v, U: UnitPx}
}

// Dp returns the Value for v device independent
// pixels.
func Dp(v float32) Value {
	return Value{V: v, U: UnitDp}
}

// Sp returns the Value for v scaled dps.
func Sp(v float32) Value {
	return Value{V: v, U: UnitSp}
}

// Pt returns the Value for v points.
func Pt(v float32) Value {
	return Value{V: v, U: UnitPt}
}

// Scale returns the value scaled by s.
func (v Value) Scale(s float32) Value {
	v.V *= s
	return v
}

func (v Value) String() string {
	return fmt.Sprintf("%g%s", v.V, v.U)
}

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitDp:
		return "dp"
	case UnitSp:
		return "sp"
	case UnitPt:
		return "pt"
	default:
		panic("unknown unit")
	}
}

// Parse parses a number with an optional px, dp, sp or pt suffix.
func Parse(s string) (Value, error) {
	u := UnitPx
	num := s
	for _, cand := range []Unit{UnitPx, UnitDp, UnitSp, UnitPt} {
		if suffix := cand.String(); strings.HasSuffix(s, suffix) {
			u, num = cand, strings.TrimSuffix(s, suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(num, 32)
	if err != nil {
		return Value{}, fmt.Errorf("unit: invalid value %q", s)
	}
	return Value{V: float32(v), U: u}, nil
}

// Px converts v to pixels.
func (c Metric) Px(v Value) float32 {
	switch v.U {
	case UnitPx:
		return v.V
	case UnitDp:
		return v.V * nonZero(c.PxPerDp)
	case UnitSp:
		return v.V * nonZero(c.PxPerSp)
	case UnitPt:
		// 160 dp per inch, 72 points per inch.
		return v.V * nonZero(c.PxPerDp) * 160 / 72
	default:
		panic("unknown unit")
	}
}

// Dp converts v device independent pixels to pixels.
func (c Metric) Dp(v float32) float32 {
	return c.Px(Dp(v))
}

// Sp converts v scaled pixels to pixels.
func (c Metric) Sp(v float32) float32 {
	return c.Px(Sp(v))
}

// DpToSp converts v dp to sp.
func (c Metric) DpToSp(v float32) float32 {
	return v * nonZero(c.PxPerDp) / nonZero(c.PxPerSp)
}

// SpToDp converts v sp to dp.
func (c Metric) SpToDp(v float32) float32 {
	return v * nonZero(c.PxPerSp) / nonZero(c.PxPerDp)
}

// PxToDp converts v pixels to dp.
func (c Metric) PxToDp(v float32) float32 {
	return v / nonZero(c.PxPerDp)
}

func nonZero(v float32) float32 {
	if v == 0. {
		return 1
	}
	return v
}
