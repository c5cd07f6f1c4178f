// SPDX-License-Identifier: Unlicense OR MIT

// Package gofont exports the Go fonts as font faces.
//
// See https://blog.golang.org/go-fonts for a description of the
// fonts, and the golang.org/x/image/font/gofont packages for the
// font data.
//
// The proportional faces are registered under the Go typeface. The
// monospaced and small caps faces are separate typefaces, selectable
// from a family list.
package gofont

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"

	"gioui.org/paragraph/font"
	"gioui.org/paragraph/font/opentype"
)

const (
	// Typeface names the proportional Go faces.
	Typeface font.Typeface = "Go"
	// Mono names the monospaced Go faces.
	Mono font.Typeface = "Go Mono"
	// Smallcaps names the small caps Go faces.
	Smallcaps font.Typeface = "Go Smallcaps"
)

type source struct {
	font font.Font
	ttf  []byte
}

// sources lists every face, regular first.
var sources = []source{
	{font.Font{Typeface: Typeface}, goregular.TTF},
	{font.Font{Typeface: Typeface, Style: font.Italic}, goitalic.TTF},
	{font.Font{Typeface: Typeface, Weight: font.Bold}, gobold.TTF},
	{font.Font{Typeface: Typeface, Weight: font.Bold, Style: font.Italic}, gobolditalic.TTF},
	{font.Font{Typeface: Typeface, Weight: font.Medium}, gomedium.TTF},
	{font.Font{Typeface: Typeface, Weight: font.Medium, Style: font.Italic}, gomediumitalic.TTF},
	{font.Font{Typeface: Mono}, gomono.TTF},
	{font.Font{Typeface: Mono, Weight: font.Bold}, gomonobold.TTF},
	{font.Font{Typeface: Mono, Weight: font.Bold, Style: font.Italic}, gomonobolditalic.TTF},
	{font.Font{Typeface: Mono, Style: font.Italic}, gomonoitalic.TTF},
	{font.Font{Typeface: Smallcaps}, gosmallcaps.TTF},
	{font.Font{Typeface: Smallcaps, Style: font.Italic}, gosmallcapsitalic.TTF},
}

// faces holds the parsed sources, filled lazily in order.
var (
	mu    sync.Mutex
	faces []font.FontFace
)

// load parses the first n sources if they are not parsed already and
// returns them with a capacity that prevents callers from appending into
// the shared slice.
func load(n int) []font.FontFace {
	mu.Lock()
	defer mu.Unlock()
	for len(faces) < n {
		src := sources[len(faces)]
		face, err := opentype.Parse(src.ttf)
		if err != nil {
			panic(fmt.Errorf("gofont: failed to parse %s: %v", src.font.Typeface, err))
		}
		faces = append(faces, font.FontFace{Font: src.font, Face: face})
	}
	return faces[:n:n]
}

// Regular returns only the regular Go face.
func Regular() []font.FontFace {
	return load(1)
}

// Collection returns all Go faces.
func Collection() []font.FontFace {
	return load(len(sources))
}
