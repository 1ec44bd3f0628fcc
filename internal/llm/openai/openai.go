package openai

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

// Provider completes prompts against the OpenAI chat completions API
type Provider struct {
	client      *api.Client
	model       string
	maxTokens   int
	temperature float32
}

// Compile-time interface check
var _ interfaces.Provider = (*Provider)(nil)

// New creates an OpenAI provider. A missing OPENAI_API_KEY is a construction
// failure.
func New(cfg *store.Config) (*Provider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	client := api.NewClient(
		api.WithBaseURL("https://api.openai.com"),
		api.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second),
		api.WithHeader("Authorization", "Bearer "+apiKey),
		api.WithLogging(logger.IsDebugEnabled()),
	)

	return &Provider{
		client:      client,
		model:       cfg.LLM.Model,
		maxTokens:   cfg.LLM.MaxTokens,
		temperature: cfg.LLM.Temperature,
	}, nil
}

// Complete sends one synchronous chat completion request with the rendered
// prompt as the sole user message.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	body := map[string]any{
		"model":       p.model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": p.temperature,
		"max_tokens":  p.maxTokens,
	}

	resp, err := p.client.PostJSON(ctx, "/v1/chat/completions", body)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.DecodeJSON(&r); err != nil {
		return "", fmt.Errorf("openai response decode failed: %w", err)
	}
	if len(r.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return r.Choices[0].Message.Content, nil
}
