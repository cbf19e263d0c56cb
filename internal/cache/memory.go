package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"disputewise/internal/model"
)

// MemoryCache keeps judgments in process memory with TTL eviction.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a judgment from the cache. The caller receives a copy;
// mutating it does not touch the cached entry.
func (c *MemoryCache) Get(key string) (*model.AIJudgment, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	j := val.(model.AIJudgment)
	return &j, true
}

// Set stores a judgment with the given TTL
func (c *MemoryCache) Set(key string, j *model.AIJudgment, ttl time.Duration) error {
	c.cache.Set(key, *j, ttl)
	return nil
}

// Delete removes a judgment from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all judgments from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
