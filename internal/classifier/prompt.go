package classifier

import "fmt"

// categorizationPrompt is the fixed instruction template sent to the LLM.
// It has exactly one substitution slot for the raw user query.
const categorizationPrompt = `You are a financial analysis query categorizer. Your job is to categorize financial analysis queries into one of four categories based on the type of analysis being requested.

Given a user query, return a JSON object with the following structure:
{
    "category": "string",
    "entities": {
        "symbols": ["string"],
        "time_period": "string",
        "events": ["string"],
        "metrics": ["string"]
    }
}

symbols: stock symbols being analyzed. time_period: time period for the analysis. events: specific events or regimes mentioned. metrics: financial metrics to analyze.

Categories:

1. single_stock_analysis: Analysis focused on a single stock or asset.
   Examples: "Is SPY's average daily return significantly different from zero?", "Plot SPY's rolling 30-day volatility", "Do SPY's monthly returns look normal?"
   Analysis types: t_tests, normality_tests, volatility_analysis, return_analysis

2. event_regime: Analysis of specific events, time periods, or market regimes.
   Examples: "Do SPY's returns differ across weekdays?", "Is there a Santa rally in December?", "Plot cumulative abnormal return around dividend announcements"
   Analysis types: event_study, regime_analysis, seasonal_analysis, pattern_analysis

3. cross_asset_correlation: Analysis comparing multiple assets or finding relationships.
   Examples: "Find stocks similar to Apple", "Which renewable energy stocks move like Tesla?", "Are FAANG stocks becoming more correlated?"
   Analysis types: correlation_analysis, similarity_analysis, clustering, comparative_analysis

4. risk_stress_testing: Risk measurement and stress testing analysis.
   Examples: "Has Microsoft become more risky compared to the market?", "Analyze technology sector volatility clustering"
   Analysis types: risk_measurement, stress_testing, volatility_analysis, risk_comparison

IMPORTANT: Return ONLY the JSON object, no backticks, no additional text, explanations, or markdown formatting. The response must be valid JSON that can be parsed directly.

User query: %s`

// RenderPrompt substitutes the raw query into the categorization template.
// The query is inserted verbatim; it is never reinterpreted as formatting
// directives since it arrives as an argument, not as part of the format string.
func RenderPrompt(query string) string {
	return fmt.Sprintf(categorizationPrompt, query)
}
