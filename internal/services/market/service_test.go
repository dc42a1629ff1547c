package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/synth"
)

type stubQuoteSource struct {
	quote *models.Quote
	err   error
	calls int
}

func (s *stubQuoteSource) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	q := *s.quote
	q.Symbol = symbol
	return &q, nil
}

type stubHistorySource struct {
	series *models.ChartSeries
	err    error
}

func (s *stubHistorySource) GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

func newTestService(source *stubQuoteSource, history *stubHistorySource) *Service {
	svc := NewService(nil, nil, synth.NewSeededGenerator(7), common.NewSilentLogger())
	if source != nil {
		svc.source = source
	}
	if history != nil {
		svc.history = history
	}
	return svc
}

func TestGetQuoteUsesLiveSource(t *testing.T) {
	source := &stubQuoteSource{quote: &models.Quote{Name: "Apple Inc.", Price: 185.5, Change: 1.2}}
	svc := newTestService(source, nil)

	quote, err := svc.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 185.5, quote.Price)
	assert.Equal(t, "live", quote.Source)
}

func TestGetQuoteCachesLiveQuotes(t *testing.T) {
	source := &stubQuoteSource{quote: &models.Quote{Price: 185.5}}
	svc := newTestService(source, nil)

	_, err := svc.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = svc.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestGetQuoteCacheExpires(t *testing.T) {
	source := &stubQuoteSource{quote: &models.Quote{Price: 185.5}}
	svc := newTestService(source, nil)

	current := time.Now()
	svc.now = func() time.Time { return current }

	_, err := svc.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	current = current.Add(quoteCacheTTL + time.Second)
	_, err = svc.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestGetQuoteFallsBackToSynthetic(t *testing.T) {
	source := &stubQuoteSource{err: errors.New("connection refused")}
	svc := newTestService(source, nil)

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "synthetic", quote.Source)
	assert.Equal(t, "Apple Inc.", quote.Name)
	// Anchored at the catalog reference price, one tick away at most.
	assert.InDelta(t, 182.52, quote.Price, 1.01)
}

func TestGetQuoteSyntheticUnknownSymbol(t *testing.T) {
	svc := newTestService(nil, nil)

	quote, err := svc.GetQuote(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "ZZZZ", quote.Name)
	assert.InDelta(t, synth.BasePrice("ZZZZ"), quote.Price, 1.01)
	assert.Greater(t, quote.Price, 0.0)
}

func TestGetChartHistoryPrefersRemote(t *testing.T) {
	history := &stubHistorySource{series: &models.ChartSeries{
		Symbol: "AAPL",
		Period: models.Period1W,
		Labels: []string{"Mon", "Tue"},
		Points: []float64{150, 151},
	}}
	svc := newTestService(nil, history)

	series, err := svc.GetChartHistory(context.Background(), "AAPL", models.Period1W)
	require.NoError(t, err)
	assert.Equal(t, []float64{150, 151}, series.Points)
}

func TestGetChartHistorySyntheticFallback(t *testing.T) {
	history := &stubHistorySource{err: errors.New("timeout")}
	svc := newTestService(nil, history)

	series, err := svc.GetChartHistory(context.Background(), "AAPL", models.Period1D)
	require.NoError(t, err)
	assert.Len(t, series.Labels, 14)
	assert.Len(t, series.Points, 14)
}

func TestSearchStocksBySymbolAndName(t *testing.T) {
	svc := newTestService(nil, nil)

	bySymbol, err := svc.SearchStocks(context.Background(), "aa")
	require.NoError(t, err)
	require.NotEmpty(t, bySymbol)
	assert.Equal(t, "AAPL", bySymbol[0].Symbol)

	byName, err := svc.SearchStocks(context.Background(), "tesla")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "TSLA", byName[0].Symbol)
}

func TestSearchStocksShortQueryReturnsEmpty(t *testing.T) {
	svc := newTestService(nil, nil)

	results, err := svc.SearchStocks(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchStocksCapsResults(t *testing.T) {
	svc := newTestService(nil, nil)

	// "In" matches many catalog names ("Inc.", "Intel", ...).
	results, err := svc.SearchStocks(context.Background(), "in")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), maxSearchResults)
}

func TestMarketOverviewSentiment(t *testing.T) {
	source := &stubQuoteSource{quote: &models.Quote{Price: 100, Change: 2.5}}
	svc := newTestService(source, nil)

	overview, err := svc.GetMarketOverview(context.Background())
	require.NoError(t, err)
	assert.Len(t, overview.MarketData, len(popularSymbols))
	assert.Equal(t, len(popularSymbols), overview.Summary.TotalSymbols)
	assert.Equal(t, len(popularSymbols), overview.Summary.Gainers)
	assert.Equal(t, 0, overview.Summary.Losers)
	assert.Equal(t, "BULLISH", overview.Summary.Sentiment)
}

func TestMarketStatusTradingHours(t *testing.T) {
	svc := newTestService(nil, nil)
	et := easternTime()

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"weekday midday", time.Date(2026, 3, 4, 12, 0, 0, 0, et), true},
		{"weekday open bell", time.Date(2026, 3, 4, 9, 30, 0, 0, et), true},
		{"weekday before open", time.Date(2026, 3, 4, 9, 29, 0, 0, et), false},
		{"weekday at close", time.Date(2026, 3, 4, 16, 0, 0, 0, et), false},
		{"saturday", time.Date(2026, 3, 7, 12, 0, 0, 0, et), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc.now = func() time.Time { return tc.at }
			status, err := svc.GetMarketStatus(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.open, status.IsOpen)
			if tc.open {
				assert.Equal(t, "OPEN", status.Status)
			} else {
				assert.Equal(t, "CLOSED", status.Status)
			}
		})
	}
}
