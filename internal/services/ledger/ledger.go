// Package ledger maintains the in-memory paper-trading portfolio: cash,
// holdings, and the append-only transaction history. Every operation is an
// atomic full recomputation — read state, compute the complete next state,
// swap — so reentrant ticks and trades can never observe a partially applied
// update.
package ledger

import (
	"sync"
	"time"

	"github.com/bobmcallan/papertrade/internal/models"
)

// Ledger owns one portfolio's state for the session. Safe for concurrent use.
type Ledger struct {
	mu           sync.Mutex
	cash         float64
	holdings     []models.Holding
	transactions []models.Transaction // most recent first
	baseline     float64              // session-open total value, for daily gain
	now          func() time.Time
}

// New creates a ledger with the given starting cash and no holdings.
func New(startingCash float64) *Ledger {
	return &Ledger{
		cash:     startingCash,
		baseline: startingCash,
		now:      time.Now,
	}
}

// ApplyTick updates the holding matching the tick's symbol with the new price
// and recomputes all valuations. A tick for an unheld symbol is a no-op but
// still returns the current portfolio state.
func (l *Ledger) ApplyTick(tick models.PriceTick) models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := cloneHoldings(l.holdings)
	for i := range next {
		if next[i].Symbol == tick.Symbol {
			RevalueHolding(&next[i], tick.Price)
			break
		}
	}
	l.holdings = next

	return l.portfolioLocked()
}

// ApplyTrade validates and applies a buy or sell, appends a transaction, and
// recomputes all valuations. On a validation error the ledger state is
// unchanged.
func (l *Ledger) ApplyTrade(action models.TradeAction, symbol string, quantity int64, price float64) (models.Portfolio, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nextCash, nextHoldings, tx, err := ExecuteTrade(l.cash, cloneHoldings(l.holdings), action, symbol, quantity, price, l.now())
	if err != nil {
		return l.portfolioLocked(), err
	}

	l.cash = nextCash
	l.holdings = nextHoldings
	l.transactions = append([]models.Transaction{*tx}, l.transactions...)

	return l.portfolioLocked(), nil
}

// ReplaceFrom overwrites the entire ledger state from an authoritative
// backend snapshot. Always a full replacement, never a merge, so locally
// simulated and server-confirmed state cannot diverge.
func (l *Ledger) ReplaceFrom(snapshot models.PortfolioSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cash = snapshot.Portfolio.VirtualCash
	l.holdings = cloneHoldings(snapshot.Holdings)
	l.transactions = append([]models.Transaction(nil), snapshot.RecentTransactions...)
}

// Portfolio returns the current aggregate portfolio state.
func (l *Ledger) Portfolio() models.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.portfolioLocked()
}

// Holdings returns a copy of the current holdings.
func (l *Ledger) Holdings() []models.Holding {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneHoldings(l.holdings)
}

// HeldQuantity returns the quantity held for a symbol, zero when not held.
func (l *Ledger) HeldQuantity(symbol string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, h := range l.holdings {
		if h.Symbol == symbol {
			return h.Quantity
		}
	}
	return 0
}

// Transactions returns a copy of the transaction history, most recent first.
func (l *Ledger) Transactions() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Transaction(nil), l.transactions...)
}

// Snapshot returns a deep copy of the full ledger state.
func (l *Ledger) Snapshot() models.PortfolioSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.PortfolioSnapshot{
		Portfolio:          l.portfolioLocked(),
		Holdings:           cloneHoldings(l.holdings),
		RecentTransactions: append([]models.Transaction(nil), l.transactions...),
	}
}

// portfolioLocked computes the aggregate portfolio from current state.
// Caller must hold l.mu.
func (l *Ledger) portfolioLocked() models.Portfolio {
	holdingsValue := 0.0
	for _, h := range l.holdings {
		holdingsValue += h.CurrentValue
	}
	totalValue := l.cash + holdingsValue

	dailyGain := totalValue - l.baseline
	dailyGainPct := 0.0
	if l.baseline > 0 {
		dailyGainPct = dailyGain / l.baseline * 100
	}

	return models.Portfolio{
		VirtualCash:      l.cash,
		HoldingsValue:    holdingsValue,
		TotalValue:       totalValue,
		DailyGain:        dailyGain,
		DailyGainPercent: dailyGainPct,
	}
}

func cloneHoldings(holdings []models.Holding) []models.Holding {
	return append([]models.Holding(nil), holdings...)
}
