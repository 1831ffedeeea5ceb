// Package cache provides the generic LRU map used by the frame cache.
//
// # LRU[K, V]
//
// A capacity-bounded map with exact least-recently-used eviction. A
// capacity of zero or less disables eviction entirely.
//
//	c := cache.NewLRU[int, *Frame](256)
//	c.Set(3, frame)
//	f, ok := c.Get(3)
//
// # Thread Safety
//
// LRU is not safe for concurrent use. The owner serializes access.
package cache
