package mdobs

import (
	"context"

	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/trace"
	"financial-analysis-agent/internal/types"
)

// observableMarketData wraps a MarketData with logging and tracing
type observableMarketData struct {
	md interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data fetcher with observability middleware
func Wrap(md interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{md: md}
}

func (o *observableMarketData) CurrentPrice(ctx context.Context, symbol string) (*types.StockPrice, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.CurrentPrice")
	defer span.End()

	price, err := o.md.CurrentPrice(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch current price", err, "symbol", symbol)
		return nil, err
	}
	logger.InfoSkip(ctx, 1, "Fetched current price", "symbol", symbol, "price", price.Price, "currency", price.Currency)
	return price, nil
}

func (o *observableMarketData) History(ctx context.Context, symbol, period string) (*types.HistoricalData, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.History")
	defer span.End()

	hist, err := o.md.History(ctx, symbol, period)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch history", err, "symbol", symbol, "period", period)
		return nil, err
	}
	logger.InfoSkip(ctx, 1, "Fetched history", "symbol", symbol, "period", hist.Period, "bars", len(hist.Points))
	return hist, nil
}

func (o *observableMarketData) Info(ctx context.Context, symbol string) (*types.StockInfo, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Info")
	defer span.End()

	info, err := o.md.Info(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch stock info", err, "symbol", symbol)
		return nil, err
	}
	logger.InfoSkip(ctx, 1, "Fetched stock info", "symbol", symbol, "company", info.CompanyName)
	return info, nil
}

func (o *observableMarketData) Prices(ctx context.Context, symbols []string) map[string]types.StockPrice {
	ctx, span := trace.StartSpan(ctx, "marketdata.Prices")
	defer span.End()

	prices := o.md.Prices(ctx, symbols)
	logger.InfoSkip(ctx, 1, "Fetched prices", "requested", len(symbols), "resolved", len(prices))
	return prices
}

func (o *observableMarketData) IsValidSymbol(ctx context.Context, symbol string) bool {
	ctx, span := trace.StartSpan(ctx, "marketdata.IsValidSymbol")
	defer span.End()

	ok := o.md.IsValidSymbol(ctx, symbol)
	logger.DebugSkip(ctx, 1, "Symbol validation", "symbol", symbol, "valid", ok)
	return ok
}
