package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"financial-analysis-agent/internal/classifier"
	"financial-analysis-agent/internal/classifier/classifierobs"
	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/llm/claude"
	"financial-analysis-agent/internal/llm/gemini"
	"financial-analysis-agent/internal/llm/openai"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/marketdata"
	"financial-analysis-agent/internal/marketdata/mdobs"
	"financial-analysis-agent/internal/querylog"
	"financial-analysis-agent/internal/store"
	"financial-analysis-agent/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes env, logger, tracer, and log retention
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	compressOldLogs()
	return nil
}

// compressOldLogs compresses old query-log files if retention is configured
func compressOldLogs() {
	ctx := context.Background()
	if v := os.Getenv("AGENT_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := querylog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old query logs", "error", err)
		}
	}
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeClassifier constructs the LLM provider and the classifier with
// observability. A provider construction failure (missing credential) is
// returned alongside a still-usable classifier that reports the
// configuration failure on every attempt, so the process keeps running.
func initializeClassifier(ctx context.Context, cfg *store.Config) (interfaces.QueryClassifier, error) {
	var provider interfaces.Provider
	var err error

	switch cfg.LLM.Provider {
	case "OPENAI":
		provider, err = openai.New(cfg)
	case "CLAUDE":
		provider, err = claude.New(cfg)
	default:
		provider, err = gemini.New(ctx, cfg)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "LLM provider unavailable", err, "provider", cfg.LLM.Provider)
		provider = nil
	} else {
		logger.Info(ctx, "LLM provider initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	return classifierobs.Wrap(classifier.New(provider, timeout)), err
}

// initializeMarketData constructs the market data fetcher with observability,
// or nil when disabled in config.
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	if !cfg.MarketData.Enabled {
		logger.Info(ctx, "Market data lookups disabled in config")
		return nil
	}
	logger.Info(ctx, "Market data fetcher initialized", "base_url", cfg.MarketData.BaseURL)
	return mdobs.Wrap(marketdata.NewFetcher(cfg))
}
