package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pulseroom/pulseroom/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// cachedGiftEntry wraps a gift with version metadata for cache invalidation
type cachedGiftEntry struct {
	Version  string       `json:"version"`
	Gift     *domain.Gift `json:"gift"`
	CachedAt time.Time    `json:"cached_at"`
}

// giftCache provides an in-memory LRU cache for gift definition lookups
// with time-based expiration and version-based invalidation to prevent stale data.
type giftCache struct {
	lru *expirable.LRU[string, *cachedGiftEntry]
}

// newGiftCache creates a new gift cache with the specified size and TTL.
func newGiftCache(size int, ttl time.Duration) *giftCache {
	return &giftCache{
		lru: expirable.NewLRU[string, *cachedGiftEntry](size, nil, ttl),
	}
}

// Get retrieves a gift from the cache.
// Returns (nil, false) if not in cache, expired, or version mismatch.
func (c *giftCache) Get(giftID string) (*domain.Gift, bool) {
	entry, found := c.lru.Get(giftID)
	if !found {
		return nil, false
	}

	// Check version - auto-invalidate if mismatch
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(giftID)
		return nil, false
	}

	return entry.Gift, true
}

// Set stores a gift in the cache with current schema version.
func (c *giftCache) Set(giftID string, gift *domain.Gift) {
	entry := &cachedGiftEntry{
		Version:  CacheSchemaVersion,
		Gift:     gift,
		CachedAt: time.Now(),
	}
	c.lru.Add(giftID, entry)
}

// Clear removes all entries from the cache.
func (c *giftCache) Clear() {
	c.lru.Purge()
}
