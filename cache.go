package rotoframe

import (
	"log/slog"

	"github.com/gogpu/rotoframe/internal/cache"
)

// DefaultCacheCapacity is the number of frames FrameCache keeps by default.
const DefaultCacheCapacity = 512

// FrameCache maps frame indices to decoded frames so repeated requests for
// the same index do not decode again.
//
// It is a two-tier cache: a hot slot holding the most recently requested
// index sits ahead of an LRU map. The hot slot always refers to an entry of
// the map, so each index has at most one stored frame.
//
// Failed decodes are never stored and leave the cache untouched.
//
// FrameCache is NOT safe for concurrent use. Session serializes access.
type FrameCache struct {
	hot    hotSlot
	frames *cache.LRU[int, *Frame]

	hits    uint64
	hotHits uint64
	misses  uint64
}

// hotSlot remembers the last index served.
type hotSlot struct {
	valid bool
	index int
	frame *Frame
}

// CacheStats reports FrameCache counters.
type CacheStats struct {
	// Len is the number of stored frames.
	Len int
	// Capacity is the bound on stored frames, 0 when unbounded.
	Capacity int
	// Hits counts requests served without decoding, HotHits included.
	Hits uint64
	// HotHits counts requests served by the hot slot.
	HotHits uint64
	// Misses counts requests that called Decode, failed ones included.
	Misses uint64
	// Evictions counts frames dropped by the capacity bound.
	Evictions uint64
}

// NewFrameCache creates an empty cache holding at most capacity frames.
// A capacity of 0 or less means unbounded.
func NewFrameCache(capacity int) *FrameCache {
	c := &FrameCache{
		frames: cache.NewLRU[int, *Frame](capacity),
	}
	c.frames.OnEvict(func(index int, _ *Frame) {
		if c.hot.valid && c.hot.index == index {
			c.hot = hotSlot{}
		}
	})
	return c
}

// GetOrLoad returns the frame for index, decoding it from src on a miss.
// A hit never touches src. Decode errors are returned unchanged.
func (c *FrameCache) GetOrLoad(index int, src FrameSource) (*Frame, error) {
	if c.hot.valid && c.hot.index == index {
		c.hits++
		c.hotHits++
		return c.hot.frame, nil
	}

	if f, ok := c.frames.Get(index); ok {
		c.hits++
		c.hot = hotSlot{valid: true, index: index, frame: f}
		return f, nil
	}

	if src == nil {
		return nil, ErrNilSource
	}

	c.misses++
	f, err := src.Decode(index)
	if err != nil {
		Logger().Debug("rotoframe: decode failed", slog.Int("index", index), slog.Any("err", err))
		return nil, err
	}
	Logger().Debug("rotoframe: decoded frame",
		slog.Int("index", index), slog.Int("width", f.Width()), slog.Int("height", f.Height()))

	c.Put(index, f)
	return f, nil
}

// Put stores f under index, replacing any frame already stored there.
func (c *FrameCache) Put(index int, f *Frame) {
	c.frames.Set(index, f)
	c.hot = hotSlot{valid: true, index: index, frame: f}
}

// Peek returns the stored frame for index without decoding or touching recency.
func (c *FrameCache) Peek(index int) (*Frame, bool) {
	return c.frames.Peek(index)
}

// Contains reports whether a frame is stored for index.
func (c *FrameCache) Contains(index int) bool {
	return c.frames.Contains(index)
}

// Indices returns the stored indices from most to least recently used.
func (c *FrameCache) Indices() []int {
	return c.frames.Keys()
}

// Len returns the number of stored frames.
func (c *FrameCache) Len() int {
	return c.frames.Len()
}

// Capacity returns the bound on stored frames, 0 when unbounded.
func (c *FrameCache) Capacity() int {
	return c.frames.Capacity()
}

// Clear removes every stored frame, hot slot included.
func (c *FrameCache) Clear() {
	c.frames.Clear()
	c.hot = hotSlot{}
}

// Stats returns the current counters.
func (c *FrameCache) Stats() CacheStats {
	return CacheStats{
		Len:       c.frames.Len(),
		Capacity:  c.frames.Capacity(),
		Hits:      c.hits,
		HotHits:   c.hotHits,
		Misses:    c.misses,
		Evictions: c.frames.Evictions(),
	}
}
