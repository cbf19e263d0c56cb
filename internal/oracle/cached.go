package oracle

import (
	"context"
	"time"

	"disputewise/internal/cache"
	"disputewise/internal/model"
)

// CachedOracle wraps an oracle with a judgment cache keyed by dispute
// content. Judgments for unchanged disputes are served without a
// provider call.
type CachedOracle struct {
	inner Oracle
	cache cache.Cache
	ttl   time.Duration
}

// WithCache wraps o with the given cache. A nil cache returns o
// unchanged.
func WithCache(o Oracle, c cache.Cache, ttl time.Duration) Oracle {
	if c == nil {
		return o
	}
	return &CachedOracle{inner: o, cache: c, ttl: ttl}
}

// Name returns the wrapped provider name
func (o *CachedOracle) Name() string {
	return o.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (o *CachedOracle) IsAvailable(ctx context.Context) bool {
	return o.inner.IsAvailable(ctx)
}

// Judge returns a cached judgment when one exists, otherwise calls the
// wrapped provider and caches the result. Cache errors are ignored:
// caching is an optimization, never a failure mode.
func (o *CachedOracle) Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error) {
	key := cache.JudgmentKey(dispute)

	if j, found := o.cache.Get(key); found {
		j.Normalize()
		return j, nil
	}

	j, err := o.inner.Judge(ctx, dispute)
	if err != nil {
		return nil, err
	}

	_ = o.cache.Set(key, j, o.ttl)
	return j, nil
}
