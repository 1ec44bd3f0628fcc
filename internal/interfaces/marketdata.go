package interfaces

import (
	"context"

	"financial-analysis-agent/internal/types"
)

// MarketData fetches live and historical data for a symbol. Operations are
// independently fallible: an unknown symbol or provider outage yields a nil
// result plus an error at this boundary, never a panic.
type MarketData interface {
	CurrentPrice(ctx context.Context, symbol string) (*types.StockPrice, error)
	History(ctx context.Context, symbol, period string) (*types.HistoricalData, error)
	Info(ctx context.Context, symbol string) (*types.StockInfo, error)
	Prices(ctx context.Context, symbols []string) map[string]types.StockPrice
	IsValidSymbol(ctx context.Context, symbol string) bool
}
