package cache

// LRU is a map with least-recently-used eviction.
// LRU must not be copied after creation.
type LRU[K comparable, V any] struct {
	entries  map[K]*entry[K, V]
	order    lruList[K]
	capacity int

	evictions uint64
	onEvict   func(K, V)
}

// entry holds a cached value with its recency node.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewLRU creates an LRU holding at most capacity entries.
// A capacity of 0 or less means unbounded.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &LRU[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
}

// OnEvict registers fn to be called for every entry dropped by the
// capacity bound. It is not called by Delete or Clear.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(e.node)
	return e.value, true
}

// Peek returns the value for key without changing its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Contains reports whether key is present without changing its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Set stores value under key, replacing any existing value, and marks the
// key most recently used. Oldest entries are evicted while over capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.MoveToFront(e.node)
		return
	}

	c.entries[key] = &entry[K, V]{
		value: value,
		node:  c.order.PushFront(key),
	}

	for c.capacity > 0 && c.order.Len() > c.capacity {
		oldest, ok := c.order.RemoveOldest()
		if !ok {
			break
		}
		e := c.entries[oldest]
		delete(c.entries, oldest)
		c.evictions++
		if c.onEvict != nil {
			c.onEvict(oldest, e.value)
		}
	}
}

// Delete removes key. Returns true if it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Clear removes all entries. The eviction counter is kept.
func (c *LRU[K, V]) Clear() {
	c.entries = make(map[K]*entry[K, V])
	c.order.Clear()
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	return len(c.entries)
}

// Capacity returns the configured bound, 0 when unbounded.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Evictions returns how many entries the capacity bound has dropped.
func (c *LRU[K, V]) Evictions() uint64 {
	return c.evictions
}

// Keys returns the keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	return c.order.Keys()
}
