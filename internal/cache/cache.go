// Package cache stores oracle judgments keyed by dispute content, so
// re-analyzing an unchanged dispute never re-pays a provider call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"disputewise/internal/model"
)

// Cache holds judgments by key with per-entry TTL.
type Cache interface {
	Get(key string) (*model.AIJudgment, bool)
	Set(key string, j *model.AIJudgment, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// JudgmentKey generates a cache key from a dispute record. Two records
// with identical content share a key; any field change produces a new
// one.
func JudgmentKey(d model.DisputeData) string {
	raw, _ := json.Marshal(d)
	hash := sha256.Sum256(raw)
	return "disputewise:v1:" + hex.EncodeToString(hash[:])
}
