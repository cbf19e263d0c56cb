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

// OllamaOracle implements the Oracle interface for Ollama local models
type OllamaOracle struct {
	baseURL    string
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"` // "json" forces structured output
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // max tokens
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaOracle creates a new Ollama oracle
func NewOllamaOracle(config Config) (*OllamaOracle, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaOracle{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.requestTimeout(),
		},
		config:  config,
		limiter: newLimiter(config),
	}, nil
}

// Name returns the provider name
func (o *OllamaOracle) Name() string {
	return "ollama"
}

// IsAvailable checks if the Ollama server is reachable
func (o *OllamaOracle) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Judge obtains the priority and insight judgments and merges them
func (o *OllamaOracle) Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error) {
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

// complete runs one throttled, retried generate call
func (o *OllamaOracle) complete(ctx context.Context, prompt string) (string, error) {
	if err := waitLimiter(ctx, o.limiter); err != nil {
		return "", err
	}

	mdl := o.config.Model
	if mdl == "" {
		mdl = "llama3.2"
	}

	req := ollamaRequest{
		Model:  mdl,
		Prompt: prompt,
		System: systemJudgment,
		Format: "json",
		Stream: false,
		Options: ollamaOptions{
			Temperature: o.config.Temperature,
			NumPredict:  o.config.MaxTokens,
		},
	}

	var text string
	err := withRetry(ctx, o.config, func() error {
		resp, err := o.makeRequest(ctx, req)
		if err != nil {
			return err
		}
		text = resp.Response
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// makeRequest performs a single generate API round trip
func (o *OllamaOracle) makeRequest(ctx context.Context, req ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.config.requestTimeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Ollama API request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("Ollama API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("Ollama API error (%d)", httpResp.StatusCode)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
