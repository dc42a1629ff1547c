// Package pricefeed emits periodic price ticks for the active symbol,
// preferring the remote quote source and falling back to synthetic
// generation whenever the source is unreachable or returns a malformed
// payload.
package pricefeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// DefaultQuoteTimeout bounds each remote quote attempt. A slow source must
// not stall the tick cadence.
const DefaultQuoteTimeout = 4 * time.Second

// TickHandler receives each emitted tick. Called from the feed's goroutine
// with the feed's internal lock held, so a tick from a stopped or retargeted
// subscription is never delivered; handlers must not call back into the Feed.
type TickHandler func(models.PriceTick)

// Feed is a restartable single-symbol tick source. Stopping or retargeting
// is synchronous: once Stop returns, no further ticks from the old
// subscription can be delivered.
type Feed struct {
	source  interfaces.QuoteSource // nil disables the remote path entirely
	gen     *synth.Generator
	logger  *common.Logger
	handler TickHandler
	timeout time.Duration

	mu         sync.Mutex
	generation int
	cancel     context.CancelFunc
	symbol     string
	interval   time.Duration
	lastPrice  float64 // last observed price for the active symbol, 0 if none
	lastTick   *models.PriceTick
}

// Option configures the feed.
type Option func(*Feed)

// WithQuoteTimeout overrides the per-quote timeout.
func WithQuoteTimeout(d time.Duration) Option {
	return func(f *Feed) {
		f.timeout = d
	}
}

// New creates a price feed. source may be nil, in which case every tick is
// synthetic.
func New(source interfaces.QuoteSource, gen *synth.Generator, logger *common.Logger, handler TickHandler, opts ...Option) *Feed {
	f := &Feed{
		source:  source,
		gen:     gen,
		logger:  logger,
		handler: handler,
		timeout: DefaultQuoteTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start begins emitting ticks for symbol on the given interval. The first
// tick fires immediately so consumers have data without waiting a full
// interval. Any prior subscription is cancelled first.
func (f *Feed) Start(symbol string, interval time.Duration) {
	f.mu.Lock()
	f.stopLocked()

	f.generation++
	gen := f.generation
	f.symbol = symbol
	f.interval = interval
	f.lastPrice = 0
	f.lastTick = nil

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.mu.Unlock()

	f.logger.Debug().Str("symbol", symbol).Dur("interval", interval).Msg("Price feed started")

	go f.run(ctx, gen, symbol, interval)
}

// Retarget switches the feed to a new symbol, equivalent to Stop followed by
// Start with the previous interval. No-op timers are never leaked.
func (f *Feed) Retarget(symbol string) {
	f.mu.Lock()
	interval := f.interval
	f.mu.Unlock()
	if interval <= 0 {
		interval = 5 * time.Second
	}
	f.Start(symbol, interval)
}

// Stop cancels the active subscription. Idempotent; safe to call when not
// running. After Stop returns, no tick from the cancelled subscription will
// be delivered.
func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

// stopLocked cancels the running subscription and invalidates its
// generation. Caller must hold f.mu.
func (f *Feed) stopLocked() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	// Bumping the generation invalidates any tick still in flight: delivery
	// re-checks the generation under the same mutex.
	f.generation++
}

// Latest returns the most recently delivered tick, or nil before the first
// delivery.
func (f *Feed) Latest() *models.PriceTick {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastTick == nil {
		return nil
	}
	tick := *f.lastTick
	return &tick
}

// run emits ticks until the subscription context is cancelled.
func (f *Feed) run(ctx context.Context, generation int, symbol string, interval time.Duration) {
	f.emit(ctx, generation, symbol)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.emit(ctx, generation, symbol)
		}
	}
}

// emit resolves one tick (remote first, synthetic fallback) and delivers it
// if the subscription is still current.
func (f *Feed) emit(ctx context.Context, generation int, symbol string) {
	tick := f.resolveTick(ctx, symbol)

	f.mu.Lock()
	defer f.mu.Unlock()
	if generation != f.generation {
		// Subscription was stopped or retargeted while the tick was in
		// flight; a late result must not corrupt the new symbol's state.
		return
	}
	f.lastPrice = tick.Price
	f.lastTick = &tick

	if f.handler != nil {
		f.handler(tick)
	}
}

// resolveTick attempts the remote quote source and falls back to the
// synthetic generator anchored at the last observed price.
func (f *Feed) resolveTick(ctx context.Context, symbol string) models.PriceTick {
	if f.source != nil {
		quoteCtx, cancel := context.WithTimeout(ctx, f.timeout)
		quote, err := f.source.GetQuote(quoteCtx, symbol)
		cancel()

		if err == nil && quote != nil && quote.Price > 0 {
			return quote.Tick()
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			f.logger.Info().
				Err(err).
				Str("symbol", symbol).
				Msg("Quote source unavailable, using synthetic tick")
		}
	}

	f.mu.Lock()
	last := f.lastPrice
	f.mu.Unlock()

	var anchor *float64
	if last > 0 {
		anchor = &last
	}
	return f.gen.NextTick(symbol, anchor)
}
