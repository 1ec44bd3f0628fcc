package classifier

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/trace"
	"financial-analysis-agent/internal/types"
)

// Classifier turns raw query text into a validated QueryResponse using one
// synchronous LLM call. It holds no per-call state; the provider handle is
// injected once and reused across calls.
type Classifier struct {
	provider interfaces.Provider
	timeout  time.Duration
}

// Compile-time interface check
var _ interfaces.QueryClassifier = (*Classifier)(nil)

// New creates a classifier backed by the given provider. timeout bounds each
// provider call; expiry surfaces as an LLM call failure.
func New(provider interfaces.Provider, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Classifier{provider: provider, timeout: timeout}
}

// Classify runs the full pipeline: render prompt, call the provider, decode
// the response as JSON, validate against the schema. Failures come back as a
// *Error with a discriminated Kind; a successful result is always fully
// populated, never partial.
func (c *Classifier) Classify(ctx context.Context, query string) (types.QueryResponse, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		logger.Warn(ctx, "Empty query submitted, skipping LLM call")
		return types.QueryResponse{}, newError(KindEmptyInput, "query is blank")
	}

	if c.provider == nil {
		return types.QueryResponse{}, newError(KindConfiguration, "no LLM provider configured")
	}

	prompt := RenderPrompt(query)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.provider.Complete(callCtx, prompt)
	if err != nil {
		return types.QueryResponse{}, wrapError(KindLLMCall, "provider call failed", err)
	}

	// Contract with the model is JSON only, no fences, no prose. Anything
	// else fails decoding and is surfaced as-is; no text repair is attempted.
	resp, err := decodeResponse(strings.TrimSpace(raw))
	if err != nil {
		if KindOf(err) == KindInvalidJSON {
			logger.Debug(ctx, "LLM response was not valid JSON", "raw", raw)
		}
		return types.QueryResponse{}, err
	}

	return resp, nil
}

// wireResponse mirrors the expected JSON shape with pointer fields so that
// structurally absent fields are distinguishable from present-but-empty ones.
type wireResponse struct {
	Category *string       `json:"category"`
	Entities *wireEntities `json:"entities"`
}

type wireEntities struct {
	Symbols    []string `json:"symbols"`
	TimePeriod *string  `json:"time_period"`
	Events     []string `json:"events"`
	Metrics    []string `json:"metrics"`
}

// decodeResponse decodes text as JSON and validates it against the schema.
// Validation is all-or-nothing: missing fields are violations, never filled
// with defaults.
func decodeResponse(text string) (types.QueryResponse, error) {
	var probe any
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return types.QueryResponse{}, wrapError(KindInvalidJSON, "response is not parseable JSON", err)
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return types.QueryResponse{}, wrapError(KindSchemaViolation, "response shape does not match schema", err)
	}

	if wire.Category == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: category")
	}
	if wire.Entities == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: entities")
	}
	if wire.Entities.Symbols == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: entities.symbols")
	}
	if wire.Entities.TimePeriod == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: entities.time_period")
	}
	if wire.Entities.Events == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: entities.events")
	}
	if wire.Entities.Metrics == nil {
		return types.QueryResponse{}, newError(KindSchemaViolation, "missing field: entities.metrics")
	}

	category := types.Category(*wire.Category)
	if !category.Valid() {
		return types.QueryResponse{}, newError(KindSchemaViolation, "unknown category: "+*wire.Category)
	}

	return types.QueryResponse{
		Category: category,
		Entities: types.QueryEntities{
			Symbols:    wire.Entities.Symbols,
			TimePeriod: *wire.Entities.TimePeriod,
			Events:     wire.Entities.Events,
			Metrics:    wire.Entities.Metrics,
		},
	}, nil
}
