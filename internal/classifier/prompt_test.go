package classifier

import (
	"strings"
	"testing"
)

func TestRenderPromptContainsQuery(t *testing.T) {
	queries := []string{
		"Is SPY's average daily return significantly different from zero?",
		`a query with "quotes" and {braces} and {query}`,
		"multi\nline\nquery",
	}

	for _, q := range queries {
		rendered := RenderPrompt(q)

		if !strings.Contains(rendered, q) {
			t.Errorf("Rendered prompt does not contain the query %q", q)
		}
		if strings.Contains(rendered, "%s") {
			t.Errorf("Rendered prompt still contains the substitution marker for query %q", q)
		}
	}
}

func TestRenderPromptVerbatimSubstitution(t *testing.T) {
	// Format-like content in the query must come through untouched, not be
	// reinterpreted as a directive.
	q := "what is 50% of SPY's %d return"
	rendered := RenderPrompt(q)

	if !strings.Contains(rendered, q) {
		t.Errorf("Query with format-like content was not inserted verbatim: %q", rendered)
	}
}

func TestRenderPromptEmptyQuery(t *testing.T) {
	rendered := RenderPrompt("")

	if strings.Contains(rendered, "%s") {
		t.Error("Rendered prompt still contains the substitution marker")
	}
	if !strings.Contains(rendered, "User query: ") {
		t.Error("Expected the query slot to remain at the end of the template")
	}
}

func TestRenderPromptMentionsAllCategories(t *testing.T) {
	rendered := RenderPrompt("anything")

	for _, want := range []string{
		"single_stock_analysis",
		"event_regime",
		"cross_asset_correlation",
		"risk_stress_testing",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Expected prompt to mention category %q", want)
		}
	}
}
