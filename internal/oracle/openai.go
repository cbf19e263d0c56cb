package oracle

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"disputewise/internal/model"
)

const systemJudgment = "You are a banking dispute analysis assistant. Always respond with a single JSON object matching the requested shape."

// OpenAIOracle implements the Oracle interface for OpenAI models
type OpenAIOracle struct {
	client  *openai.Client
	config  Config
	limiter *rate.Limiter
}

// NewOpenAIOracle creates a new OpenAI oracle
func NewOpenAIOracle(config Config) (*OpenAIOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIOracle{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: newLimiter(config),
	}, nil
}

// Name returns the provider name
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (o *OpenAIOracle) IsAvailable(ctx context.Context) bool {
	_, err := o.client.ListModels(ctx)
	return err == nil
}

// Judge obtains the priority and insight judgments and merges them.
// The two calls mirror the oracle's split output: a short priority
// assignment and a longer free-form insight set.
func (o *OpenAIOracle) Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error) {
	priorityText, err := o.complete(ctx, BuildPriorityPrompt(dispute))
	if err != nil {
		return nil, fmt.Errorf("priority judgment: %w", err)
	}

	insightsText, err := o.complete(ctx, BuildInsightsPrompt(dispute))
	if err != nil {
		return nil, fmt.Errorf("insights judgment: %w", err)
	}

	return mergeJudgment(decodePriority(priorityText), decodeInsights(insightsText)), nil
}

// complete runs one throttled, retried chat completion and returns the
// raw message content.
func (o *OpenAIOracle) complete(ctx context.Context, prompt string) (string, error) {
	if err := waitLimiter(ctx, o.limiter); err != nil {
		return "", err
	}

	mdl := o.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := o.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	req := openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemJudgment},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(o.config.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var content string
	err := withRetry(ctx, o.config, func() error {
		callCtx, cancel := context.WithTimeout(ctx, o.config.requestTimeout())
		defer cancel()

		resp, err := o.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response from OpenAI")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
