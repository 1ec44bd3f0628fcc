package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Provider       string  `yaml:"provider"`
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	MarketData struct {
		Enabled           bool    `yaml:"enabled"`
		AutoFetch         bool    `yaml:"auto_fetch"`
		BaseURL           string  `yaml:"base_url"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		CacheDir          string  `yaml:"cache_dir"`
		CacheTTLMinutes   int     `yaml:"cache_ttl_minutes"`
		RequestsPerSecond int     `yaml:"requests_per_second"`
		DefaultPeriod     string  `yaml:"default_period"`
	} `yaml:"market_data"`
}

var validProviders = map[string]bool{"GEMINI": true, "OPENAI": true, "CLAUDE": true}

var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

func (c *Config) Validate() error {
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider '%s': must be one of GEMINI, OPENAI, CLAUDE", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model cannot be empty")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %.2f", c.LLM.Temperature)
	}
	if !validPeriods[c.MarketData.DefaultPeriod] {
		return fmt.Errorf("invalid market_data.default_period '%s'", c.MarketData.DefaultPeriod)
	}
	if c.MarketData.RequestsPerSecond <= 0 {
		return fmt.Errorf("market_data.requests_per_second must be positive, got %d", c.MarketData.RequestsPerSecond)
	}
	return nil
}

// ValidPeriod reports whether p is an accepted history range.
func ValidPeriod(p string) bool {
	return validPeriods[strings.ToLower(p)]
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	if c.LLM.Provider == "" {
		c.LLM.Provider = "GEMINI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.TimeoutSeconds == 0 {
		c.MarketData.TimeoutSeconds = 15
	}
	if c.MarketData.CacheDir == "" {
		c.MarketData.CacheDir = "cache/marketdata"
	}
	if c.MarketData.CacheTTLMinutes == 0 {
		c.MarketData.CacheTTLMinutes = 15
	}
	if c.MarketData.RequestsPerSecond == 0 {
		c.MarketData.RequestsPerSecond = 5
	}
	if c.MarketData.DefaultPeriod == "" {
		c.MarketData.DefaultPeriod = "1mo"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "OPENAI":
		return "gpt-4o-mini"
	case "CLAUDE":
		return "claude-sonnet-4-20250514"
	default:
		return "gemini-2.5-flash"
	}
}
