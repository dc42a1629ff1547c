package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

// ErrPortfolioNotFound is returned when a user has no stored portfolio.
var ErrPortfolioNotFound = errors.New("portfolio not found")

// HoldingsRecord stores a portfolio's full holding set as one value, written
// wholesale on every change.
type HoldingsRecord struct {
	PortfolioID string `badgerhold:"key"`
	Holdings    []models.Holding
	UpdatedAt   time.Time
}

// TransactionRecord ties a transaction to its portfolio for querying.
type TransactionRecord struct {
	ID          string `badgerhold:"key"`
	PortfolioID string `badgerhold:"index"`
	Transaction models.Transaction
}

type portfolioStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *portfolioStore) GetPortfolio(_ context.Context, userID string) (*models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.db.Find(&portfolios, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to find portfolio for user '%s': %w", userID, err)
	}
	if len(portfolios) == 0 {
		return nil, ErrPortfolioNotFound
	}
	return &portfolios[0], nil
}

func (s *portfolioStore) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	now := time.Now()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = now
	}
	portfolio.UpdatedAt = now

	if err := s.db.Upsert(portfolio.ID, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio '%s': %w", portfolio.ID, err)
	}
	s.logger.Debug().Str("portfolio_id", portfolio.ID).Msg("Portfolio saved")
	return nil
}

func (s *portfolioStore) GetHoldings(_ context.Context, portfolioID string) ([]models.Holding, error) {
	var record HoldingsRecord
	if err := s.db.Get(portfolioID, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return []models.Holding{}, nil
		}
		return nil, fmt.Errorf("failed to get holdings for portfolio '%s': %w", portfolioID, err)
	}
	return record.Holdings, nil
}

func (s *portfolioStore) SaveHoldings(_ context.Context, portfolioID string, holdings []models.Holding) error {
	record := HoldingsRecord{
		PortfolioID: portfolioID,
		Holdings:    holdings,
		UpdatedAt:   time.Now(),
	}
	if err := s.db.Upsert(portfolioID, &record); err != nil {
		return fmt.Errorf("failed to save holdings for portfolio '%s': %w", portfolioID, err)
	}
	return nil
}

func (s *portfolioStore) AppendTransaction(_ context.Context, portfolioID string, tx *models.Transaction) error {
	record := TransactionRecord{
		ID:          tx.ID,
		PortfolioID: portfolioID,
		Transaction: *tx,
	}
	if err := s.db.Insert(record.ID, &record); err != nil {
		return fmt.Errorf("failed to append transaction '%s': %w", tx.ID, err)
	}
	s.logger.Debug().
		Str("portfolio_id", portfolioID).
		Str("symbol", tx.Symbol).
		Str("action", string(tx.Action)).
		Msg("Transaction recorded")
	return nil
}

func (s *portfolioStore) RecentTransactions(_ context.Context, portfolioID string, limit int) ([]models.Transaction, error) {
	var records []TransactionRecord
	if err := s.db.Find(&records, badgerhold.Where("PortfolioID").Eq(portfolioID)); err != nil {
		return nil, fmt.Errorf("failed to find transactions for portfolio '%s': %w", portfolioID, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Transaction.Timestamp.After(records[j].Transaction.Timestamp)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	txs := make([]models.Transaction, len(records))
	for i, r := range records {
		txs[i] = r.Transaction
	}
	return txs, nil
}
