/* cache.go
 * Contains a small TTL cache used to bound load on the upstream results api.
 * Stale results are acceptable because scores do not change once posted.
 * Authors: Jamie Barkway
 */

package external

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// Cache is an explicit expiring key-value store. It replaces what would
// otherwise be ambient package-level state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached value for key, or false on a miss or an expired
// entry. Expired entries are dropped on read.
func (c *Cache) Get(key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Put stores value under key for the given lifetime. A non-positive ttl is a
// no-op.
func (c *Cache) Put(key string, value any, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
