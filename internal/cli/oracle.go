package cli

import (
	"time"

	"disputewise/internal/cache"
	"disputewise/internal/model"
	"disputewise/internal/oracle"
)

const memoryCleanupInterval = 10 * time.Minute

// buildOracle constructs the configured judgment oracle, wrapped with a
// cache when caching is enabled. Returns (nil, nil) when no provider is
// configured.
func buildOracle(cfg *model.Config) (oracle.Oracle, error) {
	o, err := oracle.New(oracle.ConfigFromModel(cfg.Oracle))
	if err != nil {
		return nil, err
	}
	if o == nil || !cfg.Cache.Enabled {
		return o, nil
	}

	var c cache.Cache
	if cfg.Cache.Dir != "" {
		c = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	} else {
		c = cache.NewMemoryCache(cfg.Cache.TTL, memoryCleanupInterval)
	}
	return oracle.WithCache(o, c, cfg.Cache.TTL), nil
}
