package interfaces

import (
	"context"

	"github.com/bobmcallan/papertrade/internal/models"
)

// MarketService handles server-side market data operations: quotes, chart
// history, search, overview, and market status.
type MarketService interface {
	// GetQuote returns the full quote for a symbol. Never fails: unknown
	// symbols and unreachable upstreams resolve to synthetic data.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetChartHistory returns the chart series for a symbol and period.
	GetChartHistory(ctx context.Context, symbol string, period models.Period) (*models.ChartSeries, error)

	// SearchStocks finds known symbols matching the query by symbol or name.
	SearchStocks(ctx context.Context, query string) ([]models.Quote, error)

	// GetMarketOverview returns quotes for the popular symbols with a
	// gainers/losers sentiment summary.
	GetMarketOverview(ctx context.Context) (*models.MarketOverview, error)

	// GetMarketStatus reports whether the exchange is open.
	GetMarketStatus(ctx context.Context) (*models.MarketStatus, error)
}

// EducationService serves the course catalog and records completions.
type EducationService interface {
	// ListModules returns the catalog with per-user completion flags.
	ListModules(ctx context.Context, user *models.User) ([]models.LearningModule, error)

	// CompleteModule marks a module complete, awards points, and applies
	// level-up thresholds. Idempotent for already-completed modules.
	CompleteModule(ctx context.Context, userID string, moduleID int) (*models.ModuleCompletion, error)
}

// PredictionService produces technical forecasts and realtime analysis for
// a symbol. Both operations are deterministic per symbol and never fail for
// valid prices.
type PredictionService interface {
	// Predict builds the full forecast from the current price and volume.
	Predict(ctx context.Context, symbol string, price float64, volume int64) (*models.Prediction, error)

	// AnalyzeRealtime summarizes trend, key levels, and signal commentary.
	AnalyzeRealtime(ctx context.Context, symbol string, price float64) (*models.RealtimeAnalysis, error)
}

// RiskService computes portfolio risk metrics from the holding composition.
type RiskService interface {
	AnalyzePortfolio(ctx context.Context, snapshot *models.PortfolioSnapshot) (*models.RiskAnalysis, error)
}
