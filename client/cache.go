package client

import (
	"sync"
	"time"

	"github.com/onthisday/server/internal/domain/history"
)

type cacheEntry struct {
	rec      history.Record
	storedAt time.Time
}

// recordCache is the client-side TTL cache. Invalidation is lazy: entries
// are kept past expiry so they can serve as a stale fallback when every
// fetch path fails.
type recordCache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]cacheEntry
}

func newRecordCache(ttl time.Duration, now func() time.Time) *recordCache {
	return &recordCache{
		ttl: ttl,
		now: now,
		m:   make(map[string]cacheEntry),
	}
}

// fresh returns the cached record if it is within the TTL.
func (c *recordCache) fresh(key string) (history.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.m[key]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return history.Record{}, false
	}
	return entry.rec, true
}

// stale returns the cached record regardless of age.
func (c *recordCache) stale(key string) (history.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.m[key]
	return entry.rec, ok
}

func (c *recordCache) put(key string, rec history.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m[key] = cacheEntry{rec: rec, storedAt: c.now()}
}
