package geocode

import (
	"strings"
	"sync"
	"time"
)

// Cache is a tiny in-memory cache for resolved addresses, keyed by the
// trimmed, lowercased address text.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	loc Location
	ts  time.Time
}

// NewCache creates a cache with the provided TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl}
}

func keyFor(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Get returns the cached location and true if present and not expired.
func (c *Cache) Get(address string) (Location, bool) {
	k := keyFor(address)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return Location{}, false
	}
	if time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, k)
		c.mu.Unlock()
		return Location{}, false
	}
	return e.loc, true
}

// Set stores a resolved location.
func (c *Cache) Set(address string, loc Location) {
	k := keyFor(address)
	c.mu.Lock()
	c.store[k] = cacheEntry{loc: loc, ts: time.Now()}
	c.mu.Unlock()
}
