package directory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vendor-auth/auth/auth"
)

// DefaultCacheSize bounds the cache when no size is configured.
const DefaultCacheSize = 1024

// LRUCache is an IdentityCache backed by an expirable LRU: size-bounded,
// TTL-evicted and safe for concurrent use.
type LRUCache struct {
	lru *expirable.LRU[string, auth.Identity]
}

// NewLRUCache returns a new LRUCache.
// A zero ttl disables expiry; a non-positive size falls back to DefaultCacheSize.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &LRUCache{
		lru: expirable.NewLRU[string, auth.Identity](size, nil, ttl),
	}
}

// Get implements IdentityCache.
func (c *LRUCache) Get(key string) (auth.Identity, bool) {
	return c.lru.Get(key)
}

// Add implements IdentityCache.
func (c *LRUCache) Add(key string, identity auth.Identity) {
	c.lru.Add(key, identity)
}

// Remove implements IdentityCache.
func (c *LRUCache) Remove(key string) {
	c.lru.Remove(key)
}
