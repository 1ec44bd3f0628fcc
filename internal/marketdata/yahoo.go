package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"financial-analysis-agent/internal/api"
	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/store"
	"financial-analysis-agent/internal/trace"
	"financial-analysis-agent/internal/types"
)

// Fetcher retrieves quotes, history, and company info from the Yahoo Finance
// JSON API. Responses pass through a TTL file cache and outbound calls are
// rate limited.
type Fetcher struct {
	client        *api.Client
	cache         *cache
	limiter       *rateLimiter
	defaultPeriod string
}

// Compile-time interface check
var _ interfaces.MarketData = (*Fetcher)(nil)

// NewFetcher creates a Yahoo Finance fetcher from config.
func NewFetcher(cfg *store.Config) *Fetcher {
	client := api.NewClient(
		api.WithBaseURL(cfg.MarketData.BaseURL),
		api.WithTimeout(time.Duration(cfg.MarketData.TimeoutSeconds)*time.Second),
		// Yahoo rejects requests without a browser-like agent
		api.WithHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"),
		api.WithLogging(logger.IsDebugEnabled()),
	)

	refill := time.Second / time.Duration(cfg.MarketData.RequestsPerSecond)
	return &Fetcher{
		client:        client,
		cache:         newCache(cfg.MarketData.CacheDir, time.Duration(cfg.MarketData.CacheTTLMinutes)*time.Minute),
		limiter:       newRateLimiter(cfg.MarketData.RequestsPerSecond, refill),
		defaultPeriod: cfg.MarketData.DefaultPeriod,
	}
}

// chartResponse mirrors the /v8/finance/chart payload.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
	RegularMarketTime  int64    `json:"regularMarketTime"`
}

// Bars can contain nulls for halted or missing periods, hence the pointers.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// CurrentPrice returns the latest quote for symbol.
func (f *Fetcher) CurrentPrice(ctx context.Context, symbol string) (*types.StockPrice, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.CurrentPrice")
	defer span.End()

	result, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	if meta.RegularMarketPrice == nil {
		logger.Warn(ctx, "No current price available", "symbol", symbol)
		return nil, fmt.Errorf("no price data for %s", symbol)
	}

	price := &types.StockPrice{
		Symbol:    symbol,
		Price:     *meta.RegularMarketPrice,
		Currency:  orDefault(meta.Currency, "USD"),
		Timestamp: time.Now(),
	}
	if meta.RegularMarketTime > 0 {
		price.Timestamp = time.Unix(meta.RegularMarketTime, 0)
	}

	prev := meta.PreviousClose
	if prev == nil {
		prev = meta.ChartPreviousClose
	}
	if prev != nil && *prev != 0 {
		change := price.Price - *prev
		changePct := change / *prev * 100
		price.Change = &change
		price.ChangePercent = &changePct
	}

	return price, nil
}

// History returns a daily (or intraday for short ranges) price series for
// symbol over period. An empty period falls back to the configured default.
func (f *Fetcher) History(ctx context.Context, symbol, period string) (*types.HistoricalData, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.History")
	defer span.End()

	if period == "" {
		period = f.defaultPeriod
	}
	period = strings.ToLower(period)
	if !store.ValidPeriod(period) {
		return nil, fmt.Errorf("unsupported period %q", period)
	}

	result, err := f.fetchChart(ctx, symbol, period, intervalFor(period))
	if err != nil {
		return nil, err
	}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		logger.Warn(ctx, "No historical data returned", "symbol", symbol, "period", period)
		return nil, fmt.Errorf("no historical data for %s", symbol)
	}

	quote := result.Indicators.Quote[0]
	points := make([]types.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if !barComplete(quote, i) {
			continue
		}
		points = append(points, types.PricePoint{
			Time:   time.Unix(ts, 0),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volumeAt(quote, i),
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no usable bars for %s", symbol)
	}

	return &types.HistoricalData{
		Symbol:    symbol,
		Period:    period,
		StartDate: points[0].Time,
		EndDate:   points[len(points)-1].Time,
		Points:    points,
	}, nil
}

// quoteSummaryResponse mirrors the /v10/finance/quoteSummary payload. Yahoo
// wraps scalars as {raw, fmt} objects.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName            string   `json:"longName"`
				ShortName           string   `json:"shortName"`
				MarketCap           yfNumber `json:"marketCap"`
				RegularMarketVolume yfNumber `json:"regularMarketVolume"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    yfNumber `json:"trailingPE"`
				DividendYield yfNumber `json:"dividendYield"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

type yfNumber struct {
	Raw *float64 `json:"raw"`
}

// Info returns descriptive company information for symbol.
func (f *Fetcher) Info(ctx context.Context, symbol string) (*types.StockInfo, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Info")
	defer span.End()

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=price,summaryDetail,assetProfile", url.PathEscape(symbol))
	body, err := f.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	var r quoteSummaryResponse
	if err := (&api.Response{Body: body}).DecodeJSON(&r); err != nil {
		return nil, fmt.Errorf("quoteSummary decode failed for %s: %w", symbol, err)
	}
	if len(r.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no info for %s", symbol)
	}

	res := r.QuoteSummary.Result[0]
	name := res.Price.LongName
	if name == "" {
		name = res.Price.ShortName
	}
	if name == "" {
		name = symbol
	}

	info := &types.StockInfo{
		Symbol:        symbol,
		CompanyName:   name,
		Sector:        res.AssetProfile.Sector,
		MarketCap:     res.Price.MarketCap.Raw,
		PERatio:       res.SummaryDetail.TrailingPE.Raw,
		DividendYield: res.SummaryDetail.DividendYield.Raw,
	}
	if v := res.Price.RegularMarketVolume.Raw; v != nil {
		vol := int64(*v)
		info.Volume = &vol
	}
	return info, nil
}

// Prices fetches current prices for several symbols, skipping any that fail.
func (f *Fetcher) Prices(ctx context.Context, symbols []string) map[string]types.StockPrice {
	results := make(map[string]types.StockPrice, len(symbols))
	for _, symbol := range symbols {
		price, err := f.CurrentPrice(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "Skipping symbol without price", "symbol", symbol, "error", err)
			continue
		}
		results[symbol] = *price
	}
	return results
}

// IsValidSymbol reports whether symbol resolves to a current price.
func (f *Fetcher) IsValidSymbol(ctx context.Context, symbol string) bool {
	price, err := f.CurrentPrice(ctx, symbol)
	return err == nil && price != nil
}

func (f *Fetcher) fetchChart(ctx context.Context, symbol, rng, interval string) (*chartResult, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=%s&interval=%s", url.PathEscape(symbol), rng, interval)
	body, err := f.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	var r chartResponse
	if err := (&api.Response{Body: body}).DecodeJSON(&r); err != nil {
		return nil, fmt.Errorf("chart decode failed for %s: %w", symbol, err)
	}
	if len(r.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return &r.Chart.Result[0], nil
}

// fetch runs a rate-limited GET through the response cache.
func (f *Fetcher) fetch(ctx context.Context, path string) ([]byte, error) {
	return f.cache.getOrFetch(path, func() ([]byte, error) {
		if err := f.limiter.wait(ctx); err != nil {
			return nil, err
		}
		resp, err := f.client.GET(ctx, path)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	})
}

func intervalFor(period string) string {
	switch period {
	case "1d":
		return "5m"
	case "5d":
		return "15m"
	default:
		return "1d"
	}
}

func barComplete(q chartQuote, i int) bool {
	return i < len(q.Open) && q.Open[i] != nil &&
		i < len(q.High) && q.High[i] != nil &&
		i < len(q.Low) && q.Low[i] != nil &&
		i < len(q.Close) && q.Close[i] != nil
}

func volumeAt(q chartQuote, i int) int64 {
	if i < len(q.Volume) && q.Volume[i] != nil {
		return *q.Volume[i]
	}
	return 0
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
