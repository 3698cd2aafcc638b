// Package cache memoizes expensive fetches with per-entry expiry.
//
// A Cache is an explicit value owned by whoever needs memoized fetches and
// lives for as long as its owner; there is no process-wide instance.
// Lookups and stores are atomic, but producers are not de-duplicated: two
// callers racing on the same missing key may both run their producer and
// the last store wins.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a thread-safe TTL cache keyed by string.
type Cache struct {
	items *gocache.Cache
}

// New creates an empty cache. A positive cleanupInterval starts a background
// janitor that purges expired entries on that period; zero disables it and
// leaves purging to Cleanup.
func New(cleanupInterval time.Duration) *Cache {
	return &Cache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// GetOrFetch returns the unexpired value stored under key, or runs fetch,
// stores its result for ttl and returns it. Fetch errors are returned as-is
// and nothing is stored.
func GetOrFetch[T any](c *Cache, key string, fetch func() (T, error), ttl time.Duration) (T, error) {
	if v, ok := c.items.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		// Same key reused with a different type; treat as a miss
	}

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	c.items.Set(key, v, ttl)
	return v, nil
}

// Cleanup removes every entry whose expiry has passed.
func (c *Cache) Cleanup() {
	c.items.DeleteExpired()
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
