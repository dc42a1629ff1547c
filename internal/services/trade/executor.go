// Package trade validates and executes simulated trades against the local
// ledger, confirming with the remote trade backend on a best-effort basis.
package trade

import (
	"context"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/services/ledger"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// DefaultSubmitTimeout bounds the remote trade confirmation.
const DefaultSubmitTimeout = 5 * time.Second

// PriceResolver supplies the latest observed tick for a symbol, or nil when
// none has been observed yet.
type PriceResolver interface {
	Latest() *models.PriceTick
}

// Executor applies trades local-first: the ledger is mutated before the
// remote backend is consulted, and a backend failure never rolls the ledger
// back. The product favors uninterrupted simulation continuity over strict
// backend consistency.
type Executor struct {
	ledger  *ledger.Ledger
	backend interfaces.TradeBackend // nil disables remote confirmation
	prices  PriceResolver
	gen     *synth.Generator
	logger  *common.Logger
	timeout time.Duration
}

// New creates a trade executor. backend may be nil for offline use.
func New(l *ledger.Ledger, backend interfaces.TradeBackend, prices PriceResolver, gen *synth.Generator, logger *common.Logger) *Executor {
	return &Executor{
		ledger:  l,
		backend: backend,
		prices:  prices,
		gen:     gen,
		logger:  logger,
		timeout: DefaultSubmitTimeout,
	}
}

// Execute resolves the current price, applies the trade to the local ledger,
// and then attempts remote confirmation. Validation errors block the trade
// with the ledger unchanged; remote failures are logged and the local result
// stands.
func (e *Executor) Execute(ctx context.Context, action models.TradeAction, symbol string, quantity int64) (*models.TradeResult, error) {
	price := e.resolvePrice(symbol)

	portfolio, err := e.ledger.ApplyTrade(action, symbol, quantity, price)
	if err != nil {
		return nil, err
	}

	result := &models.TradeResult{
		Symbol:        symbol,
		Action:        action,
		Quantity:      quantity,
		Price:         price,
		Total:         float64(quantity) * price,
		RemainingCash: portfolio.VirtualCash,
		Timestamp:     time.Now(),
	}

	// Local-first, backend-best-effort: the ledger above is authoritative
	// for the session. The remote call only flips BackendConfirmed.
	if e.backend != nil {
		submitCtx, cancel := context.WithTimeout(ctx, e.timeout)
		submitErr := e.backend.SubmitTrade(submitCtx, models.TradeRequest{
			Symbol:   symbol,
			Action:   action,
			Quantity: quantity,
			Price:    price,
		})
		cancel()

		if submitErr != nil {
			e.logger.Warn().
				Err(submitErr).
				Str("symbol", symbol).
				Str("action", string(action)).
				Int64("quantity", quantity).
				Msg("Trade backend rejected confirmation, keeping local ledger")
		} else {
			result.BackendConfirmed = true
		}
	}

	e.logger.Info().
		Str("symbol", symbol).
		Str("action", string(action)).
		Int64("quantity", quantity).
		Float64("price", price).
		Bool("backend_confirmed", result.BackendConfirmed).
		Msg("Trade executed")

	return result, nil
}

// resolvePrice returns the latest feed tick price for the symbol, or a fresh
// synthetic tick when none has been observed yet.
func (e *Executor) resolvePrice(symbol string) float64 {
	if e.prices != nil {
		if tick := e.prices.Latest(); tick != nil && tick.Symbol == symbol && tick.Price > 0 {
			return tick.Price
		}
	}
	return e.gen.NextTick(symbol, nil).Price
}
