// SPDX-License-Identifier: Unlicense OR MIT

package gofont

import (
	"testing"

	"gioui.org/paragraph/font"
)

func TestCollection(t *testing.T) {
	reg := Regular()
	if len(reg) != 1 || reg[0].Font != (font.Font{Typeface: Typeface}) {
		t.Fatalf("Regular() = %+v", reg)
	}
	all := Collection()
	if len(all) != len(sources) {
		t.Fatalf("got %d faces, want %d", len(all), len(sources))
	}
	if all[0].Face != reg[0].Face {
		t.Error("regular face parsed twice")
	}
	count := make(map[font.Typeface]int)
	for _, f := range all {
		if f.Face == nil {
			t.Errorf("%+v has no face", f.Font)
		}
		count[f.Font.Typeface]++
	}
	if count[Typeface] != 6 || count[Mono] != 4 || count[Smallcaps] != 2 {
		t.Errorf("unexpected typeface counts %v", count)
	}
	if cap(all) != len(all) {
		t.Error("collection may be appended into")
	}
}
