package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"

	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/store"
	"financial-analysis-agent/internal/trace"
)

// Provider completes prompts against the Google Gemini API
type Provider struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float32
}

// Compile-time interface check
var _ interfaces.Provider = (*Provider)(nil)

// New creates a Gemini provider. The client is constructed once and reused
// for every completion; a missing GEMINI_API_KEY is a construction failure.
func New(ctx context.Context, cfg *store.Config) (*Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY missing")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{
		client:      client,
		model:       cfg.LLM.Model,
		maxTokens:   cfg.LLM.MaxTokens,
		temperature: cfg.LLM.Temperature,
	}, nil
}

// Complete sends one synchronous generateContent request and returns the
// response text.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(p.temperature),
		MaxOutputTokens:  int32(p.maxTokens),
		ResponseMIMEType: "application/json",
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}
