// Package models defines data structures for PaperTrade
package models

import (
	"strings"
	"time"
)

// TradeAction is the direction of a simulated trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// ParseTradeAction normalizes a raw action string. Returns false for anything
// other than BUY or SELL.
func ParseTradeAction(s string) (TradeAction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return TradeActionBuy, true
	case "SELL":
		return TradeActionSell, true
	default:
		return "", false
	}
}

// Portfolio represents the aggregate state of a virtual trading portfolio.
// TotalValue == VirtualCash + HoldingsValue after every recomputation.
type Portfolio struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name,omitempty"`
	UserID           string    `json:"user_id,omitempty"`
	VirtualCash      float64   `json:"virtual_cash"`
	HoldingsValue    float64   `json:"holdings_value"`
	TotalValue       float64   `json:"total_value"`
	DailyGain        float64   `json:"daily_gain"`
	DailyGainPercent float64   `json:"daily_gain_percent"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// Holding represents a single-symbol position owned by the portfolio.
// A symbol appears at most once; repeated buys average into AvgPrice.
type Holding struct {
	Symbol            string  `json:"symbol"`
	Quantity          int64   `json:"quantity"`
	AvgPrice          float64 `json:"avg_price"`
	CurrentPrice      float64 `json:"current_price"`
	CurrentValue      float64 `json:"current_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// CostBasis returns the capital invested in the remaining position.
func (h Holding) CostBasis() float64 {
	return float64(h.Quantity) * h.AvgPrice
}

// Transaction is an immutable record of an executed trade.
type Transaction struct {
	ID        string      `json:"id,omitempty" badgerhold:"key"`
	Symbol    string      `json:"symbol"`
	Action    TradeAction `json:"action"`
	Quantity  int64       `json:"quantity"`
	Price     float64     `json:"price"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

// PortfolioSnapshot is the authoritative portfolio state as reported by the
// portfolio backend. Used for wholesale ledger replacement, never merged.
type PortfolioSnapshot struct {
	Portfolio          Portfolio     `json:"portfolio"`
	Holdings           []Holding     `json:"holdings"`
	RecentTransactions []Transaction `json:"recent_transactions"`
}

// TradeRequest is the payload submitted to the trade backend.
type TradeRequest struct {
	Symbol   string      `json:"symbol"`
	Action   TradeAction `json:"action"`
	Quantity int64       `json:"quantity"`
	Price    float64     `json:"price"`
}

// TradeResult is the typed outcome of a trade attempt. The local ledger is
// authoritative for the session; BackendConfirmed records whether the remote
// backend also acknowledged the trade.
type TradeResult struct {
	Symbol           string      `json:"symbol"`
	Action           TradeAction `json:"action"`
	Quantity         int64       `json:"quantity"`
	Price            float64     `json:"price"`
	Total            float64     `json:"total"`
	RemainingCash    float64     `json:"remaining_cash"`
	BackendConfirmed bool        `json:"backend_confirmed"`
	Timestamp        time.Time   `json:"timestamp"`
}
