// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"testing"
)

func TestLayoutLRU(t *testing.T) {
	c := NewLayoutCache(0)
	put := func(i int) {
		c.GetOrBuild(LayoutKey{TextHash: uint64(i)}, func() *LayoutResult {
			return new(LayoutResult)
		})
	}
	get := func(i int) bool {
		found := true
		c.GetOrBuild(LayoutKey{TextHash: uint64(i)}, func() *LayoutResult {
			found = false
			return new(LayoutResult)
		})
		return found
	}
	testLRU(t, put, get)
}

func testLRU(t *testing.T, put func(i int), get func(i int) bool) {
	for i := 0; i < maxSize; i++ {
		put(i)
	}
	for i := 0; i < maxSize; i++ {
		if !get(i) {
			t.Fatalf("key %d was evicted", i)
		}
	}
	put(maxSize)
	for i := 1; i < maxSize+1; i++ {
		if !get(i) {
			t.Fatalf("key %d was evicted", i)
		}
	}
	if i := 0; get(i) {
		t.Fatalf("key %d was not evicted", i)
	}
}

func TestLayoutCacheBuildsOnce(t *testing.T) {
	c := NewLayoutCache(4)
	builds := 0
	build := func() *LayoutResult {
		builds++
		return new(LayoutResult)
	}
	k := LayoutKey{TextHash: 1, Width: 100}
	first := c.GetOrBuild(k, build)
	second := c.GetOrBuild(k, build)
	if builds != 1 {
		t.Errorf("got %d builds, want 1", builds)
	}
	if first != second {
		t.Error("cached layout differs from the built layout")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("got %d hits and %d misses, want 1 and 1", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("got %d entries, want 1", c.Len())
	}
	c.Reset()
	if c.Len() != 0 {
		t.Errorf("got %d entries after reset, want 0", c.Len())
	}
	c.GetOrBuild(k, build)
	if builds != 2 {
		t.Errorf("got %d builds after reset, want 2", builds)
	}
}

func TestLayoutCacheTurnOff(t *testing.T) {
	c := NewLayoutCache(4)
	builds := 0
	build := func() *LayoutResult {
		builds++
		return new(LayoutResult)
	}
	k := LayoutKey{TextHash: 1}
	c.GetOrBuild(k, build)
	c.TurnOn(false)
	if c.Enabled() {
		t.Fatal("cache enabled after TurnOn(false)")
	}
	c.GetOrBuild(k, build)
	c.GetOrBuild(k, build)
	if builds != 3 {
		t.Errorf("got %d builds with the cache off, want 3", builds)
	}
	if c.Len() != 0 {
		t.Errorf("got %d entries with the cache off, want 0", c.Len())
	}
	c.TurnOn(true)
	c.GetOrBuild(k, build)
	c.GetOrBuild(k, build)
	if builds != 4 {
		t.Errorf("got %d builds with the cache on, want 4", builds)
	}
}

func TestLayoutCacheKeyFields(t *testing.T) {
	c := NewLayoutCache(8)
	keys := []LayoutKey{
		{TextHash: 1, StyleHash: 1, Width: 1, FontVersion: 1},
		{TextHash: 2, StyleHash: 1, Width: 1, FontVersion: 1},
		{TextHash: 1, StyleHash: 2, Width: 1, FontVersion: 1},
		{TextHash: 1, StyleHash: 1, Width: 2, FontVersion: 1},
		{TextHash: 1, StyleHash: 1, Width: 1, FontVersion: 2},
	}
	builds := 0
	for _, k := range keys {
		c.GetOrBuild(k, func() *LayoutResult {
			builds++
			return new(LayoutResult)
		})
	}
	if builds != len(keys) {
		t.Errorf("got %d builds for %d distinct keys", builds, len(keys))
	}
}

func TestLayoutCacheRecursiveBuild(t *testing.T) {
	c := NewLayoutCache(4)
	k := LayoutKey{TextHash: 7}
	defer func() {
		if recover() == nil {
			t.Error("recursive build did not panic")
		}
	}()
	c.GetOrBuild(k, func() *LayoutResult {
		return c.GetOrBuild(k, func() *LayoutResult {
			return new(LayoutResult)
		})
	})
}
