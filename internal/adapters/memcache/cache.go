package memcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"dasha/internal/domain"
	"dasha/internal/ports"
)

// TimelineCache implements ports.TimelineCache in memory with expiry
type TimelineCache struct {
	cache *gocache.Cache
}

// Ensure TimelineCache implements ports.TimelineCache
var _ ports.TimelineCache = (*TimelineCache)(nil)

// New creates a cache whose entries expire after ttl. A cleanupInterval
// of zero disables the background janitor.
func New(ttl, cleanupInterval time.Duration) *TimelineCache {
	return &TimelineCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached timeline
func (c *TimelineCache) Get(key string) (*domain.Timeline, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(*domain.Timeline).Clone(), true
	}
	return nil, false
}

// Set stores a copy of t under the default TTL
func (c *TimelineCache) Set(key string, t *domain.Timeline) {
	c.cache.SetDefault(key, t.Clone())
}

// Flush removes all entries
func (c *TimelineCache) Flush() {
	c.cache.Flush()
}

// Len returns the number of entries, including expired ones not yet
// cleaned up
func (c *TimelineCache) Len() int {
	return c.cache.ItemCount()
}
