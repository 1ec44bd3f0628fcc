package classifier

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"financial-analysis-agent/internal/types"
)

// fakeProvider returns a canned response or error and counts calls.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// blockingProvider blocks until the call context is cancelled.
type blockingProvider struct{}

func (b *blockingProvider) Complete(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

const validPayload = `{"category": "single_stock_analysis", "entities": {"symbols": ["SPY"], "time_period": "30d", "events": [], "metrics": ["volatility"]}}`

func TestClassifyEmptyInput(t *testing.T) {
	provider := &fakeProvider{response: validPayload}
	c := New(provider, time.Second)

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := c.Classify(context.Background(), q)
		if KindOf(err) != KindEmptyInput {
			t.Errorf("Classify(%q): expected empty input failure, got %v", q, err)
		}
	}
	if provider.calls != 0 {
		t.Errorf("Expected no provider calls for empty input, got %d", provider.calls)
	}
}

func TestClassifyValidResponse(t *testing.T) {
	c := New(&fakeProvider{response: validPayload}, time.Second)

	resp, err := c.Classify(context.Background(), "Plot SPY's rolling 30-day volatility")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if resp.Category != types.CategorySingleStock {
		t.Errorf("Expected category single_stock_analysis, got %s", resp.Category)
	}
	if len(resp.Entities.Symbols) != 1 || resp.Entities.Symbols[0] != "SPY" {
		t.Errorf("Expected symbols [SPY], got %v", resp.Entities.Symbols)
	}
	if resp.Entities.TimePeriod != "30d" {
		t.Errorf("Expected time_period 30d, got %q", resp.Entities.TimePeriod)
	}
	if len(resp.Entities.Events) != 0 {
		t.Errorf("Expected no events, got %v", resp.Entities.Events)
	}
	if len(resp.Entities.Metrics) != 1 || resp.Entities.Metrics[0] != "volatility" {
		t.Errorf("Expected metrics [volatility], got %v", resp.Entities.Metrics)
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	c := New(&fakeProvider{response: "\n  " + validPayload + "  \n"}, time.Second)

	if _, err := c.Classify(context.Background(), "volatility of SPY"); err != nil {
		t.Errorf("Expected whitespace-padded response to succeed, got %v", err)
	}
}

func TestClassifyFencedResponseFails(t *testing.T) {
	// Fence stripping is deliberately not performed; a fenced response is a
	// decode failure, not a repairable one.
	fenced := "```json\n" + validPayload + "\n```"
	c := New(&fakeProvider{response: fenced}, time.Second)

	_, err := c.Classify(context.Background(), "volatility of SPY")
	if KindOf(err) != KindInvalidJSON {
		t.Errorf("Expected invalid JSON failure for fenced response, got %v", err)
	}
}

func TestClassifyProseResponseFails(t *testing.T) {
	c := New(&fakeProvider{response: "Sure! Here is the JSON: " + validPayload}, time.Second)

	_, err := c.Classify(context.Background(), "volatility of SPY")
	if KindOf(err) != KindInvalidJSON {
		t.Errorf("Expected invalid JSON failure for prose-wrapped response, got %v", err)
	}
}

func TestClassifyUnknownCategory(t *testing.T) {
	payload := `{"category": "not_a_real_category", "entities": {"symbols": [], "time_period": "", "events": [], "metrics": []}}`
	c := New(&fakeProvider{response: payload}, time.Second)

	_, err := c.Classify(context.Background(), "some query")
	if KindOf(err) != KindSchemaViolation {
		t.Errorf("Expected schema violation for unknown category, got %v", err)
	}
}

func TestClassifyMissingFields(t *testing.T) {
	cases := map[string]string{
		"missing category":    `{"entities": {"symbols": [], "time_period": "", "events": [], "metrics": []}}`,
		"missing entities":    `{"category": "event_regime"}`,
		"missing symbols":     `{"category": "event_regime", "entities": {"time_period": "", "events": [], "metrics": []}}`,
		"missing time_period": `{"category": "event_regime", "entities": {"symbols": [], "events": [], "metrics": []}}`,
		"missing events":      `{"category": "event_regime", "entities": {"symbols": [], "time_period": "", "metrics": []}}`,
		"missing metrics":     `{"category": "event_regime", "entities": {"symbols": [], "time_period": "", "events": []}}`,
	}

	for name, payload := range cases {
		c := New(&fakeProvider{response: payload}, time.Second)
		_, err := c.Classify(context.Background(), "some query")
		if KindOf(err) != KindSchemaViolation {
			t.Errorf("%s: expected schema violation, got %v", name, err)
		}
	}
}

func TestClassifyWrongFieldType(t *testing.T) {
	payload := `{"category": 42, "entities": {"symbols": [], "time_period": "", "events": [], "metrics": []}}`
	c := New(&fakeProvider{response: payload}, time.Second)

	_, err := c.Classify(context.Background(), "some query")
	if KindOf(err) != KindSchemaViolation {
		t.Errorf("Expected schema violation for wrong field type, got %v", err)
	}
}

func TestClassifyNonObjectJSON(t *testing.T) {
	c := New(&fakeProvider{response: `["valid", "json", "array"]`}, time.Second)

	_, err := c.Classify(context.Background(), "some query")
	if KindOf(err) != KindSchemaViolation {
		t.Errorf("Expected schema violation for non-object JSON, got %v", err)
	}
}

func TestClassifyEmptyCollectionsAccepted(t *testing.T) {
	payload := `{"category": "cross_asset_correlation", "entities": {"symbols": [], "time_period": "", "events": [], "metrics": []}}`
	c := New(&fakeProvider{response: payload}, time.Second)

	resp, err := c.Classify(context.Background(), "are markets becoming more correlated?")
	if err != nil {
		t.Fatalf("Expected present-but-empty fields to be valid, got %v", err)
	}
	if resp.Entities.Symbols == nil || len(resp.Entities.Symbols) != 0 {
		t.Errorf("Expected empty non-nil symbols, got %v", resp.Entities.Symbols)
	}
}

func TestClassifyProviderError(t *testing.T) {
	c := New(&fakeProvider{err: errors.New("connection refused")}, time.Second)

	_, err := c.Classify(context.Background(), "volatility of SPY")
	if KindOf(err) != KindLLMCall {
		t.Errorf("Expected LLM call failure, got %v", err)
	}
}

func TestClassifyTimeout(t *testing.T) {
	c := New(&blockingProvider{}, 20*time.Millisecond)

	_, err := c.Classify(context.Background(), "volatility of SPY")
	if KindOf(err) != KindLLMCall {
		t.Errorf("Expected timeout to surface as LLM call failure, got %v", err)
	}
}

func TestClassifyNoProvider(t *testing.T) {
	c := New(nil, time.Second)

	_, err := c.Classify(context.Background(), "volatility of SPY")
	if KindOf(err) != KindConfiguration {
		t.Errorf("Expected configuration failure without a provider, got %v", err)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := New(&fakeProvider{response: validPayload}, time.Second)

	first, err := c.Classify(context.Background(), "volatility of SPY")
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	second, err := c.Classify(context.Background(), "volatility of SPY")
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results for identical responses: %+v vs %+v", first, second)
	}
}

func TestErrorSentinels(t *testing.T) {
	c := New(&fakeProvider{response: "not json"}, time.Second)

	_, err := c.Classify(context.Background(), "some query")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("Expected errors.Is(err, ErrInvalidJSON) to hold for %v", err)
	}
	if errors.Is(err, ErrSchemaViolation) {
		t.Errorf("Expected err not to match a different kind, got %v", err)
	}
}
