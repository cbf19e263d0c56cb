package oracle

import (
	"fmt"
	"strings"
)

// New creates a judgment oracle based on configuration.
// An empty provider name returns (nil, nil): the oracle is disabled and
// callers must handle the absence.
func New(config Config) (Oracle, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIOracle(config)

	case "anthropic", "claude":
		return NewAnthropicOracle(config)

	case "ollama":
		return NewOllamaOracle(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
