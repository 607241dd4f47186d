// Package cache keeps recently loaded values in memory for a bounded time.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	key string
	ts  time.Time
}

type slot[V any] struct {
	value V
	ts    time.Time
}

// Cache is a fixed-size, TTL-bounded map. The oldest writes are evicted first.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]slot[V]
	order    []entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// New creates a cache with the provided capacity and ttl.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache[V]{
		items:    make(map[string]slot[V], capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value stored under key if it is still inside the ttl window.
func (c *Cache[V]) Get(key string) (V, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.items[key]; ok && now.Sub(s.ts) <= c.ttl {
		return s.value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key.
func (c *Cache[V]) Set(key string, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = slot[V]{value: value, ts: now}
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
}

func (c *Cache[V]) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if s, ok := c.items[oldest.key]; ok && s.ts.Equal(oldest.ts) {
			delete(c.items, oldest.key)
		}
	}
}
