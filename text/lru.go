// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"fmt"
	"hash/maphash"
	"math"
)

// LayoutKey identifies a layout in a LayoutCache.
type LayoutKey struct {
	TextHash  uint64
	StyleHash uint64
	// Width is the IEEE 754 representation of the layout width.
	Width       uint32
	FontVersion uint64
	fonts       FontCollection
}

// LayoutCache is a bounded cache of paragraph layouts, evicting the least
// recently used entry when full. It is not safe for concurrent use.
//
// FontCollection implementations used with a cache must be comparable. A
// cache must only be shared by paragraphs with the same ShapingEngine.
type LayoutCache struct {
	seed       maphash.Seed
	capacity   int
	disabled   bool
	m          map[LayoutKey]*layoutElem
	head, tail *layoutElem
	building   map[LayoutKey]bool
	hits       int
	misses     int
}

type layoutElem struct {
	next, prev *layoutElem
	key        LayoutKey
	layout     *LayoutResult
}

const maxSize = 1000

// NewLayoutCache returns an enabled cache holding at most capacity
// layouts. A non-positive capacity selects a default.
func NewLayoutCache(capacity int) *LayoutCache {
	if capacity <= 0 {
		capacity = maxSize
	}
	return &LayoutCache{
		seed:     maphash.MakeSeed(),
		capacity: capacity,
	}
}

// layoutKey returns the key of a paragraph laid out at width.
func (c *LayoutCache) layoutKey(p *Paragraph, width float32) LayoutKey {
	return LayoutKey{
		TextHash:    p.textHash,
		StyleHash:   p.styleHash,
		Width:       math.Float32bits(width),
		FontVersion: p.fonts.Version(),
		fonts:       p.fonts,
	}
}

// hashContent hashes paragraph content with the seed of the cache.
func (c *LayoutCache) hashContent(text []rune, spans *StyleSpanTable, style ParagraphStyle) (uint64, uint64) {
	return hashContent(c.seed, text, spans, style)
}

// GetOrBuild returns the layout for k, calling build to create it if k is
// missing. When the cache is turned off build is called every time. A
// build that requests its own key panics.
func (c *LayoutCache) GetOrBuild(k LayoutKey, build func() *LayoutResult) *LayoutResult {
	if c.disabled {
		c.misses++
		return build()
	}
	if lt, ok := c.m[k]; ok {
		c.hits++
		c.remove(lt)
		c.insert(lt)
		return lt.layout
	}
	if c.building[k] {
		panic(fmt.Errorf("recursive layout of cache key %+v", k))
	}
	if c.building == nil {
		c.building = make(map[LayoutKey]bool)
	}
	c.building[k] = true
	defer delete(c.building, k)
	c.misses++
	lt := build()
	c.put(k, lt)
	return lt
}

func (c *LayoutCache) put(k LayoutKey, lt *LayoutResult) {
	if c.m == nil {
		c.m = make(map[LayoutKey]*layoutElem)
		c.head = new(layoutElem)
		c.tail = new(layoutElem)
		c.head.prev = c.tail
		c.tail.next = c.head
	}
	val := &layoutElem{key: k, layout: lt}
	c.m[k] = val
	c.insert(val)
	if len(c.m) > c.capacity {
		oldest := c.tail.next
		c.remove(oldest)
		delete(c.m, oldest.key)
	}
}

func (c *LayoutCache) remove(lt *layoutElem) {
	lt.next.prev = lt.prev
	lt.prev.next = lt.next
}

func (c *LayoutCache) insert(lt *layoutElem) {
	lt.next = c.head
	lt.prev = c.head.prev
	lt.prev.next = lt
	lt.next.prev = lt
}

// Reset discards all entries and statistics.
func (c *LayoutCache) Reset() {
	c.m = nil
	c.head, c.tail = nil, nil
	c.hits, c.misses = 0, 0
}

// TurnOn enables or disables the cache. Disabling discards all entries.
func (c *LayoutCache) TurnOn(on bool) {
	c.disabled = !on
	if !on {
		c.m = nil
		c.head, c.tail = nil, nil
	}
}

// Enabled reports whether the cache stores layouts.
func (c *LayoutCache) Enabled() bool {
	return !c.disabled
}

// Len returns the number of cached layouts.
func (c *LayoutCache) Len() int {
	return len(c.m)
}

// Stats returns the number of cache hits and misses since the last Reset.
func (c *LayoutCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
