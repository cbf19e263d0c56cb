package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"disputewise/internal/model"
)

// AnthropicOracle implements the Oracle interface for Anthropic Claude models
type AnthropicOracle struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicOracle creates a new Anthropic oracle
func NewAnthropicOracle(config Config) (*AnthropicOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	return &AnthropicOracle{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.requestTimeout(),
		},
		config:  config,
		limiter: newLimiter(config),
	}, nil
}

// Name returns the provider name
func (o *AnthropicOracle) Name() string {
	return "anthropic"
}

// IsAvailable checks if the provider is properly configured
func (o *AnthropicOracle) IsAvailable(ctx context.Context) bool {
	req := anthropicRequest{
		Model:     o.modelName(),
		MaxTokens: 10,
		Messages: []anthropicMessage{
			{Role: "user", Content: "Hi"},
		},
	}
	_, err := o.makeRequest(ctx, req)
	return err == nil
}

// Judge obtains the priority and insight judgments and merges them
func (o *AnthropicOracle) Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error) {
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

func (o *AnthropicOracle) modelName() string {
	if o.config.Model != "" {
		return o.config.Model
	}
	return "claude-3-5-haiku-20241022"
}

// complete runs one throttled, retried Messages API call
func (o *AnthropicOracle) complete(ctx context.Context, prompt string) (string, error) {
	if err := waitLimiter(ctx, o.limiter); err != nil {
		return "", err
	}

	maxTokens := o.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	req := anthropicRequest{
		Model:       o.modelName(),
		MaxTokens:   maxTokens,
		System:      systemJudgment,
		Temperature: o.config.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	var text string
	err := withRetry(ctx, o.config, func() error {
		resp, err := o.makeRequest(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Content) == 0 {
			return fmt.Errorf("no content from Anthropic")
		}
		text = resp.Content[0].Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// makeRequest performs a single Messages API round trip
func (o *AnthropicOracle) makeRequest(ctx context.Context, req anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.config.requestTimeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, o.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", o.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("Anthropic API error (%d): %s", httpResp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("Anthropic API error (%d)", httpResp.StatusCode)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
