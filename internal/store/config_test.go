package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: GEMINI\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}

	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default Gemini model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Errorf("Expected default timeout 30s, got %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("Expected default max_tokens 1024, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.MarketData.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Expected default base URL, got %q", cfg.MarketData.BaseURL)
	}
	if cfg.MarketData.DefaultPeriod != "1mo" {
		t.Errorf("Expected default period 1mo, got %q", cfg.MarketData.DefaultPeriod)
	}
}

func TestLoadConfigProviderNormalized(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: openai\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected config to load, got %v", err)
	}
	if cfg.LLM.Provider != "OPENAI" {
		t.Errorf("Expected provider to be upper-cased, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Expected OpenAI default model, got %q", cfg.LLM.Model)
	}
}

func TestLoadConfigInvalidProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: LLAMA\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for unknown provider")
	}
}

func TestLoadConfigInvalidPeriod(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: GEMINI\nmarket_data:\n  default_period: 7w\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for unknown period")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []string{"1d", "1mo", "ytd", "MAX"} {
		if !ValidPeriod(p) {
			t.Errorf("Expected %q to be a valid period", p)
		}
	}
	if ValidPeriod("2w") {
		t.Error("Expected 2w to be rejected")
	}
}
