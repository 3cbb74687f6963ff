// Package shadercache memoizes cross-compilation results within a build.
//
// Many variants of one material generate byte-identical shader source:
// every depth variant shares the same fragment program, and vertex
// programs collapse onto a handful of distinct sources. Keying compiled
// results by a digest of (source, target) turns those repeats into map
// lookups instead of full compiler runs.
package shadercache

import (
	"sync"
	"sync/atomic"
)

// shardCount spreads lock contention across independent maps. Power of
// two so shard selection is a mask.
const shardCount = 16

// Key identifies one compilation: a content digest of the shader source
// and the target configuration.
type Key [32]byte

// Cache is a concurrency-safe memo table from compilation keys to
// results. Entries live for the duration of one build; there is no
// eviction. The zero value is not usable, create caches with New.
type Cache[V any] struct {
	shards [shardCount]shard[V]

	hits   atomic.Uint64
	misses atomic.Uint64
}

type shard[V any] struct {
	mu      sync.RWMutex
	entries map[Key]V
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	c := &Cache[V]{}
	for i := range c.shards {
		c.shards[i].entries = make(map[Key]V)
	}
	return c
}

func (c *Cache[V]) shard(key Key) *shard[V] {
	return &c.shards[key[0]&(shardCount-1)]
}

// Get returns the cached result for a key.
func (c *Cache[V]) Get(key Key) (V, bool) {
	s := c.shard(key)
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a result. Concurrent Sets of the same key are benign; the
// compilations that produced them are deterministic, so either value
// serves.
func (c *Cache[V]) Set(key Key, value V) {
	s := c.shard(key)
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
}

// Len returns the number of cached results.
func (c *Cache[V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Stats reports hit and miss counts since creation.
func (c *Cache[V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
