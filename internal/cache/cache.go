// Package cache provides the query result cache: an LRU eviction policy
// layered with a per-entry TTL, built on hashicorp/golang-lru/v2. Results
// are cached by a caller-supplied key (normally the compiled SPARQL query
// text) and evicted either when the LRU reaches capacity or when an entry's
// TTL has elapsed, whichever comes first.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a generic LRU+TTL cache. The zero value is not usable; build one
// with New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	lru      *lru.Cache[K, entry[V]]
	capacity int
	ttl      time.Duration
	now      func() time.Time

	hits   int
	misses int
}

// New builds a Cache with the given entry capacity and time-to-live. A
// maxEntries of 0 disables caching: Get always misses and Set is a no-op,
// which lets a Client built with cache_enabled=false share this type rather
// than branching on a nil cache everywhere.
func New[K comparable, V any](maxEntries int, ttl time.Duration) (*Cache[K, V], error) {
	if maxEntries <= 0 {
		return &Cache[K, V]{ttl: ttl, now: time.Now}, nil
	}
	backing, err := lru.New[K, entry[V]](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{lru: backing, capacity: maxEntries, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached value for key, or (zero, false) on a miss or an
// expired entry. An expired entry is evicted eagerly on lookup.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	if c.lru == nil {
		c.misses++
		return zero, false
	}

	e, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		c.misses++
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key with this cache's configured TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru == nil {
		return
	}
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Stats is a point-in-time snapshot of cache occupancy and hit/miss counts.
type Stats struct {
	Size     int
	Capacity int
	TTL      time.Duration
	Hits     int
	Misses   int
}

// Stats returns the current cache occupancy and cumulative hit/miss counts.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := 0
	if c.lru != nil {
		size = c.lru.Len()
	}
	return Stats{Size: size, Capacity: c.capacity, TTL: c.ttl, Hits: c.hits, Misses: c.misses}
}

// Purge evicts every entry in the cache.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru != nil {
		c.lru.Purge()
	}
}
