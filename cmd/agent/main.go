package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"financial-analysis-agent/internal/classifier"
	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/querylog"
	"financial-analysis-agent/internal/store"
	"financial-analysis-agent/internal/trace"
	"financial-analysis-agent/internal/types"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}
	defer trace.Shutdown(context.Background())

	logger.Info(ctx, "Financial analysis agent started")

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	clf, clfErr := initializeClassifier(ctx, cfg)
	if clfErr != nil {
		fmt.Println("! Classifier unavailable: set the provider API key and restart.")
		fmt.Println("  Market data commands still work.")
	}
	md := initializeMarketData(ctx, cfg)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	printBanner()
	printPrompt()
	for {
		select {
		case <-sigc:
			fmt.Println()
			logger.Info(ctx, "Shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				logger.Info(ctx, "Input closed, shutting down")
				return
			}
			if !handleLine(ctx, cfg, clf, md, line) {
				return
			}
			printPrompt()
		}
	}
}

func printBanner() {
	fmt.Println("Financial Analysis Agent")
	fmt.Println("Type a financial analysis question, or /help for commands.")
}

func printPrompt() {
	fmt.Print("query> ")
}

// handleLine dispatches one input line. Returns false to exit the loop.
func handleLine(ctx context.Context, cfg *store.Config, clf interfaces.QueryClassifier, md interfaces.MarketData, line string) bool {
	input := strings.TrimSpace(line)

	switch {
	case input == "":
		logger.Warn(ctx, "Empty query submitted")
		fmt.Println("Please enter a query before submitting.")
	case input == "exit" || input == "quit":
		logger.Info(ctx, "Exit requested")
		return false
	case strings.HasPrefix(input, "/"):
		handleCommand(ctx, cfg, md, input)
	default:
		handleQuery(ctx, cfg, clf, md, input)
	}
	return true
}

// handleQuery classifies one free-text query and renders the result.
func handleQuery(ctx context.Context, cfg *store.Config, clf interfaces.QueryClassifier, md interfaces.MarketData, query string) {
	logger.Info(ctx, "User submitted query", "query", query)

	resp, err := clf.Classify(ctx, query)
	if err != nil {
		fmt.Println(failureMessage(err))
		if logErr := querylog.Append(querylog.Entry{Query: query, Status: string(classifier.KindOf(err))}); logErr != nil {
			logger.Warn(ctx, "Failed to append query log", "error", logErr)
		}
		return
	}

	renderResponse(resp)

	if logErr := querylog.Append(querylog.Entry{
		Query:    query,
		Status:   "ok",
		Category: string(resp.Category),
		Symbols:  resp.Entities.Symbols,
	}); logErr != nil {
		logger.Warn(ctx, "Failed to append query log", "error", logErr)
	}

	if md != nil && cfg.MarketData.AutoFetch && len(resp.Entities.Symbols) > 0 {
		renderPrices(md.Prices(ctx, resp.Entities.Symbols))
	}
}

// failureMessage maps a classification failure to what the user sees. Raw
// LLM output never reaches the screen.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, classifier.ErrEmptyInput):
		return "Please enter a query before submitting."
	case errors.Is(err, classifier.ErrConfiguration):
		return "Classifier is not configured: set the provider API key and restart."
	case errors.Is(err, classifier.ErrLLMCall):
		return "The analysis provider could not be reached. Try again."
	case errors.Is(err, classifier.ErrInvalidJSON), errors.Is(err, classifier.ErrSchemaViolation):
		return "Could not understand the provider response. Try rephrasing your query."
	}
	return "Query processing failed. Try again."
}

func renderResponse(resp types.QueryResponse) {
	fmt.Printf("\nCategory: %s (%s)\n", resp.Category.Label(), resp.Category)
	fmt.Printf("  Symbols:     %s\n", joinOrDash(resp.Entities.Symbols))
	fmt.Printf("  Time period: %s\n", dashIfEmpty(resp.Entities.TimePeriod))
	fmt.Printf("  Events:      %s\n", joinOrDash(resp.Entities.Events))
	fmt.Printf("  Metrics:     %s\n", joinOrDash(resp.Entities.Metrics))

	if b, err := json.MarshalIndent(resp, "", "  "); err == nil {
		fmt.Println(string(b))
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderPrices(prices map[string]types.StockPrice) {
	if len(prices) == 0 {
		fmt.Println("No live prices available for the extracted symbols.")
		return
	}
	fmt.Println("\nCurrent prices:")
	for _, p := range prices {
		line := fmt.Sprintf("  %-8s %.2f %s", p.Symbol, p.Price, p.Currency)
		if p.Change != nil && p.ChangePercent != nil {
			line += fmt.Sprintf("  %+.2f (%+.2f%%)", *p.Change, *p.ChangePercent)
		}
		fmt.Println(line)
	}
}

// handleCommand runs a market-data command: /price, /history, /info, /check,
// /recent, /help.
func handleCommand(ctx context.Context, cfg *store.Config, md interfaces.MarketData, input string) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	if cmd == "/help" {
		printHelp()
		return
	}
	if cmd == "/recent" {
		printRecent(ctx)
		return
	}

	if md == nil {
		fmt.Println("Market data lookups are disabled in config.")
		return
	}
	if len(fields) < 2 {
		fmt.Printf("Usage: %s SYMBOL\n", cmd)
		return
	}
	symbol := strings.ToUpper(fields[1])

	switch cmd {
	case "/price":
		price, err := md.CurrentPrice(ctx, symbol)
		if err != nil {
			fmt.Printf("No price available for %s.\n", symbol)
			return
		}
		renderPrices(map[string]types.StockPrice{symbol: *price})
	case "/history":
		period := cfg.MarketData.DefaultPeriod
		if len(fields) > 2 {
			period = fields[2]
		}
		hist, err := md.History(ctx, symbol, period)
		if err != nil {
			fmt.Printf("No history available for %s over %s.\n", symbol, period)
			return
		}
		renderHistory(hist)
	case "/info":
		info, err := md.Info(ctx, symbol)
		if err != nil {
			fmt.Printf("No info available for %s.\n", symbol)
			return
		}
		renderInfo(info)
	case "/check":
		if md.IsValidSymbol(ctx, symbol) {
			fmt.Printf("%s looks valid.\n", symbol)
		} else {
			fmt.Printf("%s does not resolve to a quoted symbol.\n", symbol)
		}
	default:
		fmt.Printf("Unknown command %s. Try /help.\n", cmd)
	}
}

func renderHistory(hist *types.HistoricalData) {
	fmt.Printf("\n%s history (%s): %d bars from %s to %s\n",
		hist.Symbol, hist.Period, len(hist.Points),
		hist.StartDate.Format("2006-01-02"), hist.EndDate.Format("2006-01-02"))

	tail := hist.Points
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for _, p := range tail {
		fmt.Printf("  %s  open %.2f  high %.2f  low %.2f  close %.2f  vol %d\n",
			p.Time.Format("2006-01-02"), p.Open, p.High, p.Low, p.Close, p.Volume)
	}
}

func renderInfo(info *types.StockInfo) {
	fmt.Printf("\n%s — %s\n", info.Symbol, info.CompanyName)
	if info.Sector != "" {
		fmt.Printf("  Sector:         %s\n", info.Sector)
	}
	if info.MarketCap != nil {
		fmt.Printf("  Market cap:     %.0f\n", *info.MarketCap)
	}
	if info.PERatio != nil {
		fmt.Printf("  P/E ratio:      %.2f\n", *info.PERatio)
	}
	if info.DividendYield != nil {
		fmt.Printf("  Dividend yield: %.4f\n", *info.DividendYield)
	}
	if info.Volume != nil {
		fmt.Printf("  Volume:         %d\n", *info.Volume)
	}
}

func printRecent(ctx context.Context) {
	entries, err := querylog.Recent(10)
	if err != nil {
		logger.Warn(ctx, "Failed to read recent queries", "error", err)
		fmt.Println("Could not read recent queries.")
		return
	}
	if len(entries) == 0 {
		fmt.Println("No queries logged today.")
		return
	}
	fmt.Println("\nRecent queries:")
	for _, e := range entries {
		fmt.Printf("  [%s] %-18s %s\n", e.Time, e.Status, e.Query)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  /price SYMBOL            current quote
  /history SYMBOL [range]  historical bars (1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max)
  /info SYMBOL             company information
  /check SYMBOL            validate a ticker symbol
  /recent                  today's submitted queries
  exit | quit              leave

Anything else is classified as a financial analysis question.`)
}
