package github

import (
	"sync"
	"time"
)

// responseCache is a small TTL cache for API responses.
type responseCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time
	mu   sync.RWMutex
}

type cacheEntry struct {
	value     []Repository
	expiresAt time.Time
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	return &responseCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  now,
	}
}

func (c *responseCache) get(key string) ([]Repository, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *responseCache) set(key string, value []Repository) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}
