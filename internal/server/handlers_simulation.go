package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/services/ledger"
	"github.com/bobmcallan/papertrade/internal/storage"
)

// recentTransactionLimit caps the transaction list in portfolio responses.
const recentTransactionLimit = 5

// demoHoldings seed a brand-new portfolio so the dashboard has something to
// show before the first trade.
var demoHoldings = []models.Holding{
	{Symbol: "AAPL", Quantity: 10, AvgPrice: 150.00},
	{Symbol: "TSLA", Quantity: 5, AvgPrice: 200.00},
}

// handleSimulationPortfolio handles GET /api/simulation/portfolio: the
// authenticated user's portfolio with revalued holdings and recent trades.
// First access creates the portfolio with starting cash and demo holdings.
func (s *Server) handleSimulationPortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	snapshot, err := s.portfolioSnapshot(r, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Portfolio fetch failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch portfolio")
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

type tradeRequestBody struct {
	Symbol   string `json:"symbol"`
	Action   string `json:"action"`
	Quantity int64  `json:"quantity"`
}

type tradeResponse struct {
	Message       string  `json:"message"`
	Action        string  `json:"action"`
	Symbol        string  `json:"symbol"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price"`
	TotalAmount   float64 `json:"total_amount"`
	RemainingCash float64 `json:"remaining_cash"`
	Success       bool    `json:"success"`
}

// handleSimulationTrade handles POST /api/simulation/trade: executes a
// buy or sell at the current quote price against the stored portfolio.
func (s *Server) handleSimulationTrade(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	var body tradeRequestBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(body.Symbol))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	action, ok := models.ParseTradeAction(body.Action)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid action. Use 'BUY' or 'SELL'")
		return
	}

	portfolio, holdings, err := s.loadOrCreatePortfolio(r, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Portfolio load failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Price resolution failed")
		WriteError(w, http.StatusInternalServerError, "Failed to resolve price")
		return
	}

	cash, newHoldings, tx, err := ledger.ExecuteTrade(
		portfolio.VirtualCash, holdings, action, symbol, body.Quantity, quote.Price, time.Now())
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			WriteErrorWithCode(w, http.StatusBadRequest, ve.Message, ve.Code)
			return
		}
		s.logger.Error().Err(err).Msg("Trade execution failed")
		WriteError(w, http.StatusInternalServerError, "Trade execution failed")
		return
	}

	portfolio.VirtualCash = cash
	store := s.app.Storage.PortfolioStore()
	if err := store.SavePortfolio(r.Context(), portfolio); err != nil {
		s.logger.Error().Err(err).Msg("Portfolio save failed")
		WriteError(w, http.StatusInternalServerError, "Failed to save portfolio")
		return
	}
	if err := store.SaveHoldings(r.Context(), portfolio.ID, newHoldings); err != nil {
		s.logger.Error().Err(err).Msg("Holdings save failed")
		WriteError(w, http.StatusInternalServerError, "Failed to save holdings")
		return
	}
	if err := store.AppendTransaction(r.Context(), portfolio.ID, tx); err != nil {
		s.logger.Error().Err(err).Msg("Transaction append failed")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("symbol", symbol).
		Str("action", string(action)).
		Int64("quantity", body.Quantity).
		Float64("price", quote.Price).
		Msg("Trade executed")

	WriteJSON(w, http.StatusOK, tradeResponse{
		Message:       fmt.Sprintf("Successfully %sed %d shares of %s", strings.ToLower(string(action)), body.Quantity, symbol),
		Action:        string(action),
		Symbol:        symbol,
		Quantity:      body.Quantity,
		Price:         quote.Price,
		TotalAmount:   tx.Total,
		RemainingCash: round2(cash),
		Success:       true,
	})
}

// loadOrCreatePortfolio returns the user's stored portfolio and holdings,
// creating and seeding them on first access.
func (s *Server) loadOrCreatePortfolio(r *http.Request, user *models.User) (*models.Portfolio, []models.Holding, error) {
	ctx := r.Context()
	store := s.app.Storage.PortfolioStore()

	portfolio, err := store.GetPortfolio(ctx, user.ID)
	if errors.Is(err, storage.ErrPortfolioNotFound) {
		portfolio = &models.Portfolio{
			ID:          uuid.New().String(),
			Name:        "Main Portfolio",
			UserID:      user.ID,
			VirtualCash: s.app.Config.Simulation.StartingCash,
		}
		if err := store.SavePortfolio(ctx, portfolio); err != nil {
			return nil, nil, err
		}
		if err := store.SaveHoldings(ctx, portfolio.ID, demoHoldings); err != nil {
			return nil, nil, err
		}
		s.logger.Info().
			Str("user_id", user.ID).
			Float64("starting_cash", portfolio.VirtualCash).
			Msg("Portfolio created")
	} else if err != nil {
		return nil, nil, err
	}

	holdings, err := store.GetHoldings(ctx, portfolio.ID)
	if err != nil {
		return nil, nil, err
	}
	return portfolio, holdings, nil
}

// portfolioSnapshot assembles the full portfolio response: holdings revalued
// at current quotes, aggregates, and the most recent transactions.
func (s *Server) portfolioSnapshot(r *http.Request, user *models.User) (*models.PortfolioSnapshot, error) {
	ctx := r.Context()
	portfolio, holdings, err := s.loadOrCreatePortfolio(r, user)
	if err != nil {
		return nil, err
	}

	var holdingsValue float64
	for i := range holdings {
		quote, err := s.app.MarketService.GetQuote(ctx, holdings[i].Symbol)
		if err == nil {
			ledger.RevalueHolding(&holdings[i], quote.Price)
		}
		holdingsValue += holdings[i].CurrentValue
	}

	portfolio.HoldingsValue = round2(holdingsValue)
	portfolio.TotalValue = round2(portfolio.VirtualCash + holdingsValue)
	portfolio.VirtualCash = round2(portfolio.VirtualCash)

	transactions, err := s.app.Storage.PortfolioStore().RecentTransactions(ctx, portfolio.ID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioSnapshot{
		Portfolio:          *portfolio,
		Holdings:           holdings,
		RecentTransactions: transactions,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
