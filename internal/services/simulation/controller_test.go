package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

type stubHistorySource struct {
	mu     sync.Mutex
	series *models.ChartSeries
	err    error
	calls  int
}

func (s *stubHistorySource) GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

type stubPortfolioBackend struct {
	mu       sync.Mutex
	snapshot *models.PortfolioSnapshot
	err      error
	gate     chan struct{}
	calls    int
}

func (s *stubPortfolioBackend) GetPortfolio(ctx context.Context) (*models.PortfolioSnapshot, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func (s *stubPortfolioBackend) setSnapshot(snapshot *models.PortfolioSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

func (s *stubPortfolioBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testConfig() Config {
	return Config{
		Symbol:          "AAPL",
		Period:          models.Period1D,
		StartingCash:    10000,
		TickInterval:    10 * time.Millisecond,
		RefreshInterval: 20 * time.Millisecond,
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func TestControllerStartGeneratesSyntheticChart(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	chart := c.Chart()
	require.NotNil(t, chart)
	assert.Equal(t, "AAPL", chart.Symbol)
	assert.Equal(t, models.Period1D, chart.Period)
	assert.Len(t, chart.Labels, 14)
	assert.Len(t, chart.Points, 14)
}

func TestControllerTicksFlowIntoLedger(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	waitFor(t, func() bool { return c.LatestTick() != nil }, "first tick")

	result, err := c.Trade(context.Background(), models.TradeActionBuy, "", 10)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.InDelta(t, 10000-result.Total, c.Portfolio().VirtualCash, 1e-9)

	// Subsequent ticks revalue the holding.
	waitFor(t, func() bool {
		holdings := c.Holdings()
		return len(holdings) == 1 && holdings[0].CurrentPrice > 0
	}, "holding revalued")

	txs := c.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, models.TradeActionBuy, txs[0].Action)
}

func TestControllerSetPeriodRegeneratesChart(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	c.SetPeriod(models.Period1W)

	chart := c.Chart()
	require.NotNil(t, chart)
	assert.Equal(t, models.Period1W, chart.Period)
	assert.Len(t, chart.Points, 5)
	assert.Equal(t, models.Period1W, c.ActivePeriod())
}

func TestControllerSetSymbolRestartsFeedAndChart(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	c.SetSymbol("TSLA")

	assert.Equal(t, "TSLA", c.ActiveSymbol())
	chart := c.Chart()
	require.NotNil(t, chart)
	assert.Equal(t, "TSLA", chart.Symbol)

	waitFor(t, func() bool {
		tick := c.LatestTick()
		return tick != nil && tick.Symbol == "TSLA"
	}, "tick for new symbol")
}

func TestControllerPeriodAnchorsAtLatestPrice(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	waitFor(t, func() bool { return c.LatestTick() != nil }, "first tick")
	tick := c.LatestTick()

	c.SetPeriod(models.Period1M)
	chart := c.Chart()
	require.NotNil(t, chart)
	require.Len(t, chart.Points, 20)
	// The walk starts at the latest price, so the first step can move at most
	// one volatility-scaled delta away from it.
	assert.InDelta(t, tick.Price, chart.Points[0], 1.5)
}

func TestControllerPrefersRemoteHistory(t *testing.T) {
	remote := &models.ChartSeries{
		Symbol: "AAPL",
		Period: models.Period1D,
		Labels: []string{"09:30", "10:00"},
		Points: []float64{150, 151},
	}
	history := &stubHistorySource{series: remote}

	c := New(testConfig(), Collaborators{History: history}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	chart := c.Chart()
	require.NotNil(t, chart)
	assert.Equal(t, []float64{150, 151}, chart.Points)
}

func TestControllerFallsBackToSyntheticHistory(t *testing.T) {
	history := &stubHistorySource{err: errors.New("connection refused")}

	c := New(testConfig(), Collaborators{History: history}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	chart := c.Chart()
	require.NotNil(t, chart)
	assert.Len(t, chart.Points, 14)
}

func TestControllerRefreshReplacesLedger(t *testing.T) {
	backend := &stubPortfolioBackend{
		snapshot: &models.PortfolioSnapshot{
			Portfolio: models.Portfolio{VirtualCash: 4242.42},
			Holdings: []models.Holding{
				{Symbol: "MSFT", Quantity: 3, AvgPrice: 300, CurrentPrice: 310},
			},
		},
	}

	c := New(testConfig(), Collaborators{Portfolio: backend}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	waitFor(t, func() bool {
		return c.Portfolio().VirtualCash == 4242.42
	}, "ledger replaced from backend")

	holdings := c.Holdings()
	require.Len(t, holdings, 1)
	assert.Equal(t, "MSFT", holdings[0].Symbol)
}

func TestControllerRefreshContinuesAfterSetSymbol(t *testing.T) {
	backend := &stubPortfolioBackend{
		snapshot: &models.PortfolioSnapshot{
			Portfolio: models.Portfolio{VirtualCash: 5000},
		},
	}

	c := New(testConfig(), Collaborators{Portfolio: backend}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	waitFor(t, func() bool {
		return c.Portfolio().VirtualCash == 5000
	}, "initial refresh applied")

	// Switching symbols must not kill the refresh cadence: the backend
	// snapshot covers the whole account.
	c.SetSymbol("MSFT")
	backend.setSnapshot(&models.PortfolioSnapshot{
		Portfolio: models.Portfolio{VirtualCash: 7777},
	})

	waitFor(t, func() bool {
		return c.Portfolio().VirtualCash == 7777
	}, "refresh applied after symbol switch")
}

func TestControllerRefreshFailureKeepsLocalLedger(t *testing.T) {
	backend := &stubPortfolioBackend{err: errors.New("service unavailable")}

	c := New(testConfig(), Collaborators{Portfolio: backend}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	waitFor(t, func() bool { return backend.callCount() >= 2 }, "backend polled")
	assert.InDelta(t, 10000.0, c.Portfolio().VirtualCash, 1e-9)
}

func TestControllerDiscardsLateRefreshAfterStop(t *testing.T) {
	backend := &stubPortfolioBackend{
		snapshot: &models.PortfolioSnapshot{
			Portfolio: models.Portfolio{VirtualCash: 1.0},
		},
		gate: make(chan struct{}),
	}

	c := New(testConfig(), Collaborators{Portfolio: backend}, common.NewSilentLogger())
	c.Start()
	c.Stop()
	close(backend.gate)

	time.Sleep(50 * time.Millisecond)
	assert.InDelta(t, 10000.0, c.Portfolio().VirtualCash, 1e-9)
}

func TestControllerStopIsIdempotent(t *testing.T) {
	c := New(testConfig(), Collaborators{}, common.NewSilentLogger())
	c.Start()
	c.Stop()
	c.Stop()
}

func TestControllerSetSymbolSameValueIsNoop(t *testing.T) {
	history := &stubHistorySource{err: errors.New("down")}
	c := New(testConfig(), Collaborators{History: history}, common.NewSilentLogger())
	c.Start()
	defer c.Stop()

	history.mu.Lock()
	before := history.calls
	history.mu.Unlock()

	c.SetSymbol("AAPL")

	history.mu.Lock()
	after := history.calls
	history.mu.Unlock()
	assert.Equal(t, before, after)
}
