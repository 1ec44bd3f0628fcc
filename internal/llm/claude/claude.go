package claude

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"financial-analysis-agent/internal/api"
	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/store"
	"financial-analysis-agent/internal/trace"
)

// Provider completes prompts against the Anthropic messages API
type Provider struct {
	client      *api.Client
	model       string
	maxTokens   int
	temperature float32
}

// Compile-time interface check
var _ interfaces.Provider = (*Provider)(nil)

// New creates a Claude provider. A missing ANTHROPIC_API_KEY is a
// construction failure. The endpoint can be redirected with
// CLAUDE_API_ENDPOINT for proxy deployments.
func New(cfg *store.Config) (*Provider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY missing")
	}

	baseURL := "https://api.anthropic.com"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		baseURL = ep
	}

	client := api.NewClient(
		api.WithBaseURL(baseURL),
		api.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second),
		api.WithHeader("x-api-key", apiKey),
		api.WithHeader("anthropic-version", "2023-06-01"),
		api.WithLogging(logger.IsDebugEnabled()),
	)

	return &Provider{
		client:      client,
		model:       cfg.LLM.Model,
		maxTokens:   cfg.LLM.MaxTokens,
		temperature: cfg.LLM.Temperature,
	}, nil
}

// Complete sends one synchronous messages request with the rendered prompt
// as the sole user message.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	body := map[string]any{
		"model":       p.model,
		"max_tokens":  p.maxTokens,
		"temperature": p.temperature,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
	}

	resp, err := p.client.PostJSON(ctx, "/v1/messages", body)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.DecodeJSON(&r); err != nil {
		return "", fmt.Errorf("claude response decode failed: %w", err)
	}
	if len(r.Content) == 0 {
		return "", errors.New("claude returned no content")
	}

	return r.Content[0].Text, nil
}
