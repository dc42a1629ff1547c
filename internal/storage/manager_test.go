package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestUserStoreRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.UserStore()

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: "hash",
		CurrentLevel: 1,
	}
	require.NoError(t, store.CreateUser(ctx, user))

	byID, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", byID.Username)
	assert.False(t, byID.CreatedAt.IsZero())

	byName, err := store.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.UserStore()

	first := &models.User{ID: uuid.New().String(), Username: "demo"}
	require.NoError(t, store.CreateUser(ctx, first))

	second := &models.User{ID: uuid.New().String(), Username: "demo"}
	assert.ErrorIs(t, store.CreateUser(ctx, second), ErrUsernameTaken)
}

func TestUserStoreNotFound(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.UserStore().GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = m.UserStore().GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStoreUpdate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.UserStore()

	user := &models.User{ID: uuid.New().String(), Username: "demo", CurrentLevel: 1}
	require.NoError(t, store.CreateUser(ctx, user))

	user.LearningPoints = 500
	user.CurrentLevel = 2
	require.NoError(t, store.UpdateUser(ctx, user))

	loaded, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, loaded.LearningPoints)
	assert.Equal(t, 2, loaded.CurrentLevel)
}

func TestPortfolioStoreRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.PortfolioStore()

	userID := uuid.New().String()
	portfolio := &models.Portfolio{
		ID:          uuid.New().String(),
		Name:        "My Portfolio",
		UserID:      userID,
		VirtualCash: 10000,
		TotalValue:  10000,
	}
	require.NoError(t, store.SavePortfolio(ctx, portfolio))

	loaded, err := store.GetPortfolio(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.ID, loaded.ID)
	assert.Equal(t, 10000.0, loaded.VirtualCash)

	_, err = store.GetPortfolio(ctx, "nobody")
	assert.ErrorIs(t, err, ErrPortfolioNotFound)
}

func TestPortfolioStoreHoldings(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.PortfolioStore()
	portfolioID := uuid.New().String()

	empty, err := store.GetHoldings(ctx, portfolioID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	holdings := []models.Holding{
		{Symbol: "AAPL", Quantity: 10, AvgPrice: 150, CurrentPrice: 155},
		{Symbol: "TSLA", Quantity: 5, AvgPrice: 250, CurrentPrice: 248},
	}
	require.NoError(t, store.SaveHoldings(ctx, portfolioID, holdings))

	loaded, err := store.GetHoldings(ctx, portfolioID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "AAPL", loaded[0].Symbol)
	assert.Equal(t, int64(10), loaded[0].Quantity)
}

func TestPortfolioStoreTransactionLog(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.PortfolioStore()
	portfolioID := uuid.New().String()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		tx := &models.Transaction{
			ID:        uuid.New().String(),
			Symbol:    "AAPL",
			Action:    models.TradeActionBuy,
			Quantity:  1,
			Price:     150,
			Total:     150,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.AppendTransaction(ctx, portfolioID, tx))
	}

	recent, err := store.RecentTransactions(ctx, portfolioID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].Timestamp.After(recent[i].Timestamp), "most recent first")
	}

	all, err := store.RecentTransactions(ctx, portfolioID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestSystemStoreKV(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := m.SystemStore()

	_, err := store.GetKV(ctx, "active_symbol")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.SetKV(ctx, "active_symbol", "AAPL"))
	value, err := store.GetKV(ctx, "active_symbol")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", value)

	require.NoError(t, store.SetKV(ctx, "active_symbol", "TSLA"))
	value, err = store.GetKV(ctx, "active_symbol")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", value)
}
