package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"disputewise/internal/model"
)

// DiskCache persists judgments across process restarts, so repeated
// batch runs over the same disputes skip the oracle. Each judgment
// lives in its own file under the cache directory.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

// judgmentRecord is the on-disk envelope around a cached judgment.
type judgmentRecord struct {
	Judgment  model.AIJudgment `json:"judgment"`
	StoredAt  time.Time        `json:"stored_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Get retrieves a judgment, removing the file when it has expired.
func (c *DiskCache) Get(key string) (*model.AIJudgment, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var rec judgmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Unreadable file, drop it
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(rec.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return &rec.Judgment, true
}

// Set stores a judgment. A zero ttl falls back to the cache default.
func (c *DiskCache) Set(key string, j *model.AIJudgment, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	now := time.Now()
	rec := judgmentRecord{
		Judgment:  *j,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal judgment: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("write judgment file: %w", err)
	}

	return nil
}

// Delete removes a judgment file
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.path(key))
}

// Clear removes the whole cache directory
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".judgment")
}
