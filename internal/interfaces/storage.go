package interfaces

import (
	"context"

	"github.com/bobmcallan/papertrade/internal/models"
)

// StorageManager provides access to the typed stores backed by the embedded
// database.
type StorageManager interface {
	UserStore() UserStore
	PortfolioStore() PortfolioStore
	SystemStore() SystemStore
	Close() error
}

// UserStore persists platform users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// PortfolioStore persists server-side portfolios, holdings, and the
// append-only transaction log.
type PortfolioStore interface {
	GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error

	GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	SaveHoldings(ctx context.Context, portfolioID string, holdings []models.Holding) error

	AppendTransaction(ctx context.Context, portfolioID string, tx *models.Transaction) error
	RecentTransactions(ctx context.Context, portfolioID string, limit int) ([]models.Transaction, error)
}

// SystemStore is a small key-value area for runtime settings.
type SystemStore interface {
	GetKV(ctx context.Context, key string) (string, error)
	SetKV(ctx context.Context, key, value string) error
}
