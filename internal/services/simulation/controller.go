// Package simulation orchestrates the paper-trading simulator: it owns the
// active symbol and chart period, wires price-feed ticks into the portfolio
// ledger, runs the coarse portfolio-refresh cadence, and exposes read-only
// snapshots to the presentation layer.
package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/services/ledger"
	"github.com/bobmcallan/papertrade/internal/services/pricefeed"
	"github.com/bobmcallan/papertrade/internal/services/trade"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// DefaultHistoryTimeout bounds each remote chart-history request.
const DefaultHistoryTimeout = 5 * time.Second

// Config holds the controller's simulation parameters.
type Config struct {
	Symbol          string
	Period          models.Period
	StartingCash    float64
	TickInterval    time.Duration
	RefreshInterval time.Duration
}

// Collaborators are the external dependencies of the simulator. Any of them
// may be nil; the simulator then runs fully offline on synthetic data.
type Collaborators struct {
	Quotes    interfaces.QuoteSource
	History   interfaces.HistorySource
	Trades    interfaces.TradeBackend
	Portfolio interfaces.PortfolioBackend
}

// Controller is the simulator's lifecycle owner: create, Start, then Stop.
// It exclusively owns the active Portfolio and the running feed
// subscription; the presentation layer only reads snapshots.
type Controller struct {
	cfg      Config
	collab   Collaborators
	gen      *synth.Generator
	ledger   *ledger.Ledger
	feed     *pricefeed.Feed
	executor *trade.Executor
	logger   *common.Logger

	mu     sync.Mutex
	symbol string
	period models.Period
	chart  *models.ChartSeries
	// refreshEpoch invalidates in-flight portfolio refreshes from a
	// stopped run. It advances on Start and Stop only; symbol switches
	// leave it alone because the backend snapshot is account-wide, not
	// symbol-scoped.
	refreshEpoch  int
	refreshCancel context.CancelFunc
	running       bool
}

// New creates a controller with all collaborators injected. It does not
// start any timers; call Start.
func New(cfg Config, collab Collaborators, logger *common.Logger) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 5 * time.Second
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30 * time.Second
	}
	if cfg.Period == "" {
		cfg.Period = models.Period1D
	}

	gen := synth.NewGenerator()
	led := ledger.New(cfg.StartingCash)

	c := &Controller{
		cfg:    cfg,
		collab: collab,
		gen:    gen,
		ledger: led,
		logger: logger,
		symbol: cfg.Symbol,
		period: cfg.Period,
	}
	c.feed = pricefeed.New(collab.Quotes, gen, logger, c.onTick)
	c.executor = trade.New(led, collab.Trades, c.feed, gen, logger)
	return c
}

// Start begins both cadences: the fine price-tick cadence and the coarse
// portfolio-refresh cadence. Idempotent while running.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.refreshEpoch++

	refreshCtx, cancel := context.WithCancel(context.Background())
	c.refreshCancel = cancel
	epoch := c.refreshEpoch
	symbol := c.symbol
	period := c.period
	c.mu.Unlock()

	c.regenerateChart(symbol, period, nil)
	c.feed.Start(symbol, c.cfg.TickInterval)
	go c.refreshLoop(refreshCtx, epoch)

	c.logger.Info().
		Str("symbol", symbol).
		Str("period", string(period)).
		Dur("tick_interval", c.cfg.TickInterval).
		Dur("refresh_interval", c.cfg.RefreshInterval).
		Msg("Simulation started")
}

// Stop tears down both cadences together and discards in-flight work for the
// old subscription. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.refreshEpoch++
	if c.refreshCancel != nil {
		c.refreshCancel()
		c.refreshCancel = nil
	}
	c.mu.Unlock()

	c.feed.Stop()
	c.logger.Info().Msg("Simulation stopped")
}

// SetSymbol switches the active symbol: the price feed restarts and the
// chart series is regenerated. A no-op when the symbol is unchanged.
func (c *Controller) SetSymbol(symbol string) {
	c.mu.Lock()
	if symbol == c.symbol {
		c.mu.Unlock()
		return
	}
	c.symbol = symbol
	period := c.period
	running := c.running
	c.mu.Unlock()

	c.regenerateChart(symbol, period, nil)
	if running {
		c.feed.Start(symbol, c.cfg.TickInterval)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("Active symbol changed")
}

// SetPeriod switches the chart period and regenerates the series for the
// active symbol, anchored at the latest observed price when available.
func (c *Controller) SetPeriod(period models.Period) {
	c.mu.Lock()
	c.period = period
	symbol := c.symbol
	c.mu.Unlock()

	var anchor *float64
	if tick := c.feed.Latest(); tick != nil && tick.Symbol == symbol {
		anchor = &tick.Price
	}
	c.regenerateChart(symbol, period, anchor)

	c.logger.Debug().Str("period", string(period)).Msg("Chart period changed")
}

// Trade executes a user-triggered trade for the given symbol (the active
// symbol when empty) and schedules a best-effort backend refresh so the
// ledger converges on authoritative state.
func (c *Controller) Trade(ctx context.Context, action models.TradeAction, symbol string, quantity int64) (*models.TradeResult, error) {
	if symbol == "" {
		c.mu.Lock()
		symbol = c.symbol
		c.mu.Unlock()
	}

	result, err := c.executor.Execute(ctx, action, symbol, quantity)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	epoch := c.refreshEpoch
	running := c.running
	c.mu.Unlock()
	if running && c.collab.Portfolio != nil {
		go c.refreshPortfolio(context.Background(), epoch)
	}

	return result, nil
}

// Portfolio returns the current aggregate portfolio snapshot.
func (c *Controller) Portfolio() models.Portfolio {
	return c.ledger.Portfolio()
}

// Holdings returns the current holdings.
func (c *Controller) Holdings() []models.Holding {
	return c.ledger.Holdings()
}

// Transactions returns the transaction history, most recent first.
func (c *Controller) Transactions() []models.Transaction {
	return c.ledger.Transactions()
}

// Snapshot returns the full portfolio state.
func (c *Controller) Snapshot() models.PortfolioSnapshot {
	return c.ledger.Snapshot()
}

// Chart returns the current chart series.
func (c *Controller) Chart() *models.ChartSeries {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart
}

// LatestTick returns the most recent price tick, or nil before the first.
func (c *Controller) LatestTick() *models.PriceTick {
	return c.feed.Latest()
}

// ActiveSymbol returns the currently selected symbol.
func (c *Controller) ActiveSymbol() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbol
}

// ActivePeriod returns the currently selected chart period.
func (c *Controller) ActivePeriod() models.Period {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

// onTick feeds each delivered price tick into the ledger. Ticks for a
// non-active symbol are dropped; the feed's generation guard already covers
// the common retarget race, this covers direct misuse.
func (c *Controller) onTick(tick models.PriceTick) {
	c.mu.Lock()
	active := c.symbol
	c.mu.Unlock()
	if tick.Symbol != active {
		return
	}
	c.ledger.ApplyTick(tick)
}

// regenerateChart rebuilds the chart series: remote history first, synthetic
// walk on any failure.
func (c *Controller) regenerateChart(symbol string, period models.Period, anchor *float64) {
	var series *models.ChartSeries

	if c.collab.History != nil {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultHistoryTimeout)
		remote, err := c.collab.History.GetChartHistory(ctx, symbol, period)
		cancel()
		if err == nil && remote != nil && len(remote.Labels) > 0 && len(remote.Labels) == len(remote.Points) {
			series = remote
		} else if err != nil {
			c.logger.Info().
				Err(err).
				Str("symbol", symbol).
				Str("period", string(period)).
				Msg("History source unavailable, generating synthetic series")
		}
	}

	if series == nil {
		series = c.gen.History(symbol, period, anchor)
	}

	c.mu.Lock()
	// A concurrent SetSymbol may have changed the target while a remote
	// fetch was in flight; only publish when still current.
	if c.symbol == symbol && c.period == period {
		c.chart = series
	}
	c.mu.Unlock()
}

// refreshLoop pulls authoritative portfolio state on the coarse cadence.
// The first refresh fires immediately so a restored session converges fast.
func (c *Controller) refreshLoop(ctx context.Context, epoch int) {
	if c.collab.Portfolio == nil {
		return
	}

	c.refreshPortfolio(ctx, epoch)

	ticker := time.NewTicker(c.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshPortfolio(ctx, epoch)
		}
	}
}

// refreshPortfolio fetches the backend snapshot and, when the run that
// requested it is still live, replaces the ledger wholesale. The epoch
// survives symbol switches: the snapshot covers the whole account, so a
// refresh started before SetSymbol is still valid after it.
func (c *Controller) refreshPortfolio(ctx context.Context, epoch int) {
	fetchCtx, cancel := context.WithTimeout(ctx, DefaultHistoryTimeout)
	snapshot, err := c.collab.Portfolio.GetPortfolio(fetchCtx)
	cancel()

	if err != nil {
		c.logger.Info().Err(err).Msg("Portfolio backend unavailable, keeping local ledger")
		return
	}
	if snapshot == nil {
		return
	}

	c.mu.Lock()
	current := c.refreshEpoch == epoch && c.running
	c.mu.Unlock()
	if !current {
		// Late refresh from a stopped run; discard.
		return
	}

	c.ledger.ReplaceFrom(*snapshot)
	c.logger.Debug().
		Float64("virtual_cash", snapshot.Portfolio.VirtualCash).
		Int("holdings", len(snapshot.Holdings)).
		Msg("Ledger replaced from backend snapshot")
}
