// Package interfaces defines service contracts for PaperTrade
package interfaces

import (
	"context"

	"github.com/bobmcallan/papertrade/internal/models"
)

// QuoteSource delivers live quotes for a symbol. Implementations must resolve
// within a bounded timeout and return an error wrapping
// models.ErrSourceUnavailable on any transport or schema failure; the caller
// falls back to synthetic generation.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// HistorySource delivers historical chart series for a symbol and period.
type HistorySource interface {
	GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error)
}

// TradeBackend confirms trades with the remote backend. The local ledger is
// applied first; a failed confirmation never rolls it back.
type TradeBackend interface {
	SubmitTrade(ctx context.Context, req models.TradeRequest) error
}

// PortfolioBackend serves the authoritative portfolio snapshot used for
// wholesale ledger replacement on the refresh cadence.
type PortfolioBackend interface {
	GetPortfolio(ctx context.Context) (*models.PortfolioSnapshot, error)
}
