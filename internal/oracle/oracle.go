// Package oracle obtains structured dispute judgments from an external
// LLM provider. Providers are interchangeable behind the Oracle
// interface; the analyzer receives one as an explicit dependency.
package oracle

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"disputewise/internal/model"
)

// Oracle produces an AI judgment for a dispute.
type Oracle interface {
	// Name returns the provider name
	Name() string

	// Judge analyzes the dispute and returns a structured judgment.
	// A judgment with missing fields degrades to zero values; an error
	// means the provider itself failed or timed out.
	Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxRetries on transient failures
	MaxRetries int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for judgment generation
	Temperature float64

	// RequestsPerMinute throttles provider calls (0 = unlimited)
	RequestsPerMinute int
}

// ConfigFromModel converts model.OracleConfig to oracle.Config
func ConfigFromModel(mc model.OracleConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxRetries:        mc.MaxRetries,
		MaxTokens:         mc.MaxTokens,
		Temperature:       mc.Temperature,
		RequestsPerMinute: mc.RequestsPerMinute,
	}
}

// requestTimeout returns the per-request timeout with a default
func (c Config) requestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// newLimiter builds the shared call throttle for a provider.
// Returns nil when throttling is disabled.
func newLimiter(c Config) *rate.Limiter {
	if c.RequestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(c.RequestsPerMinute)/60.0), 1)
}

// waitLimiter blocks until the limiter admits a call, honoring ctx
func waitLimiter(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

// withRetry runs op with exponential backoff, bounded by cfg.MaxRetries
func withRetry(ctx context.Context, cfg Config, op func() error) error {
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries)),
		ctx,
	)
	return backoff.Retry(op, b)
}
