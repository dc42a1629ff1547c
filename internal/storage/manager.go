// Package storage implements the persistence layer on BadgerHold: user
// accounts, server-side portfolios with their transaction logs, and a small
// system key-value area, all in one embedded database.
package storage

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
)

// Manager implements interfaces.StorageManager over a single BadgerHold
// database shared by the typed stores.
type Manager struct {
	db     *badgerhold.Store
	logger *common.Logger

	users      *userStore
	portfolios *portfolioStore
	system     *systemStore
}

// NewManager opens (creating if needed) the database at path.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage path %s: %w", path, err)
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil

	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	logger.Info().Str("path", path).Msg("Storage opened")

	return &Manager{
		db:         db,
		logger:     logger,
		users:      &userStore{db: db, logger: logger},
		portfolios: &portfolioStore{db: db, logger: logger},
		system:     &systemStore{db: db},
	}, nil
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.users
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolios
}

func (m *Manager) SystemStore() interfaces.SystemStore {
	return m.system
}

func (m *Manager) Close() error {
	return m.db.Close()
}
