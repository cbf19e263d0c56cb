package cache

import (
	"time"

	"disputewise/internal/model"
)

// LayeredCache combines a memory layer with a disk layer. Reads hit
// memory first and promote disk hits; writes go to both.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a judgment, checking memory before disk
func (c *LayeredCache) Get(key string) (*model.AIJudgment, bool) {
	if j, found := c.memory.Get(key); found {
		return j, true
	}

	if j, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, j, 0)
		return j, true
	}

	return nil, false
}

// Set stores a judgment in both layers
func (c *LayeredCache) Set(key string, j *model.AIJudgment, ttl time.Duration) error {
	if err := c.memory.Set(key, j, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, j, ttl)
}

// Delete removes a judgment from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

// Clear removes all judgments from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
