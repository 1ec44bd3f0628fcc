package types

import "time"

// Category is the top-level analysis intent extracted from a user query.
type Category string

const (
	CategorySingleStock Category = "single_stock_analysis"
	CategoryEventRegime Category = "event_regime"
	CategoryCrossAsset  Category = "cross_asset_correlation"
	CategoryRiskStress  Category = "risk_stress_testing"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{CategorySingleStock, CategoryEventRegime, CategoryCrossAsset, CategoryRiskStress}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySingleStock, CategoryEventRegime, CategoryCrossAsset, CategoryRiskStress:
		return true
	}
	return false
}

// Label returns a human-readable name for display.
func (c Category) Label() string {
	switch c {
	case CategorySingleStock:
		return "Single Stock Analysis"
	case CategoryEventRegime:
		return "Event / Regime Analysis"
	case CategoryCrossAsset:
		return "Cross-Asset Correlation"
	case CategoryRiskStress:
		return "Risk & Stress Testing"
	}
	return string(c)
}

// QueryEntities holds the structured facts extracted from a query.
// All fields are required on the wire, even when empty.
type QueryEntities struct {
	Symbols    []string `json:"symbols"`
	TimePeriod string   `json:"time_period"`
	Events     []string `json:"events"`
	Metrics    []string `json:"metrics"`
}

// QueryResponse is the validated result of classifying one query.
// It is built fresh per query and never cached or shared.
type QueryResponse struct {
	Category Category      `json:"category"`
	Entities QueryEntities `json:"entities"`
}

// StockPrice is a point-in-time quote for one symbol.
type StockPrice struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
	Change        *float64  `json:"change,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
}

// PricePoint is one bar of a historical series.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoricalData is a time-indexed price series for one symbol.
type HistoricalData struct {
	Symbol    string       `json:"symbol"`
	Period    string       `json:"period"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Points    []PricePoint `json:"points"`
}

// StockInfo is descriptive information about a listed company.
type StockInfo struct {
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"company_name"`
	Sector        string   `json:"sector,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
}
