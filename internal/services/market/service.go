// Package market serves quotes, chart history, symbol search, and the
// market overview. Live data comes from the configured quote source; every
// operation degrades to synthetic data instead of failing.
package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// quoteCacheTTL bounds how long a fetched quote is reused before the
// upstream is asked again.
const quoteCacheTTL = 5 * time.Minute

// maxSearchResults caps the search response size.
const maxSearchResults = 10

// popularSymbols drives the market overview.
var popularSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "META", "NVDA", "SPY"}

type cachedQuote struct {
	quote   *models.Quote
	fetched time.Time
}

// Service implements interfaces.MarketService.
type Service struct {
	source  interfaces.QuoteSource
	history interfaces.HistorySource
	gen     *synth.Generator
	logger  *common.Logger
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedQuote
}

// NewService creates a market service. source and history may be nil, in
// which case everything is served synthetically.
func NewService(source interfaces.QuoteSource, history interfaces.HistorySource, gen *synth.Generator, logger *common.Logger) *Service {
	return &Service{
		source:  source,
		history: history,
		gen:     gen,
		logger:  logger,
		now:     time.Now,
		cache:   make(map[string]cachedQuote),
	}
}

// GetQuote returns the quote for a symbol: cached live data when fresh,
// the upstream source otherwise, and a synthetic quote when the upstream
// is unreachable. It never returns an error.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	s.mu.Lock()
	if cached, ok := s.cache[symbol]; ok && s.now().Sub(cached.fetched) < quoteCacheTTL {
		quote := *cached.quote
		s.mu.Unlock()
		return &quote, nil
	}
	s.mu.Unlock()

	if s.source != nil {
		quote, err := s.source.GetQuote(ctx, symbol)
		if err == nil && quote != nil && quote.Price > 0 {
			quote.Source = "live"
			s.mu.Lock()
			s.cache[symbol] = cachedQuote{quote: quote, fetched: s.now()}
			s.mu.Unlock()
			result := *quote
			return &result, nil
		}
		if err != nil {
			s.logger.Info().Err(err).Str("symbol", symbol).Msg("Quote source unavailable, serving synthetic quote")
		}
	}

	return s.syntheticQuote(symbol), nil
}

// GetChartHistory returns the chart series for a symbol and period,
// falling back to a synthetic series when the history source fails.
func (s *Service) GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if s.history != nil {
		series, err := s.history.GetChartHistory(ctx, symbol, period)
		if err == nil && series != nil && len(series.Labels) > 0 && len(series.Labels) == len(series.Points) {
			return series, nil
		}
		if err != nil {
			s.logger.Info().Err(err).Str("symbol", symbol).Str("period", string(period)).
				Msg("History source unavailable, serving synthetic series")
		}
	}

	return s.gen.History(symbol, period, s.catalogAnchor(symbol)), nil
}

// SearchStocks matches the known-symbol catalog by symbol or name
// substring. Queries under two characters return no results.
func (s *Service) SearchStocks(ctx context.Context, query string) ([]models.Quote, error) {
	query = strings.ToUpper(strings.TrimSpace(query))
	if len(query) < 2 {
		return []models.Quote{}, nil
	}

	symbols := make([]string, 0, len(catalog))
	for symbol := range catalog {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	results := make([]models.Quote, 0, maxSearchResults)
	for _, symbol := range symbols {
		if !strings.Contains(symbol, query) && !strings.Contains(strings.ToUpper(catalog[symbol].name), query) {
			continue
		}
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			continue
		}
		results = append(results, *quote)
		if len(results) >= maxSearchResults {
			break
		}
	}
	return results, nil
}

// GetMarketOverview quotes the popular symbols and summarizes breadth as
// BULLISH, BEARISH, or NEUTRAL.
func (s *Service) GetMarketOverview(ctx context.Context) (*models.MarketOverview, error) {
	quotes := make([]models.Quote, 0, len(popularSymbols))
	for _, symbol := range popularSymbols {
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			continue
		}
		quotes = append(quotes, *quote)
	}

	var gainers, losers int
	for _, q := range quotes {
		switch {
		case q.Change > 0:
			gainers++
		case q.Change < 0:
			losers++
		}
	}

	sentiment := "NEUTRAL"
	if gainers > losers {
		sentiment = "BULLISH"
	} else if losers > gainers {
		sentiment = "BEARISH"
	}

	return &models.MarketOverview{
		MarketData: quotes,
		Summary: models.MarketSummary{
			TotalSymbols: len(quotes),
			Gainers:      gainers,
			Losers:       losers,
			Neutral:      len(quotes) - gainers - losers,
			Sentiment:    sentiment,
		},
		Timestamp: s.now(),
	}, nil
}

// GetMarketStatus reports NYSE-style trading hours: weekdays 09:30 to
// 16:00 US Eastern time.
func (s *Service) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	now := s.now().In(easternTime())

	open := false
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
	default:
		minutes := now.Hour()*60 + now.Minute()
		open = minutes >= 9*60+30 && minutes < 16*60
	}

	status := "CLOSED"
	if open {
		status = "OPEN"
	}
	return &models.MarketStatus{IsOpen: open, Status: status, Timestamp: s.now()}, nil
}

// syntheticQuote produces a plausible quote for any symbol, anchored at the
// catalog price for known symbols and the deterministic base price otherwise.
func (s *Service) syntheticQuote(symbol string) *models.Quote {
	tick := s.gen.NextTick(symbol, s.catalogAnchor(symbol))

	name := symbol
	if entry, ok := catalog[symbol]; ok {
		name = entry.name
	}

	return &models.Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         tick.Price,
		Change:        tick.Change,
		ChangePercent: tick.ChangePercent,
		Volume:        tick.Volume,
		Source:        "synthetic",
		Timestamp:     tick.Timestamp,
	}
}

func (s *Service) catalogAnchor(symbol string) *float64 {
	if entry, ok := catalog[symbol]; ok && entry.price > 0 {
		price := entry.price
		return &price
	}
	return nil
}

func easternTime() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("EST", -5*60*60)
}
