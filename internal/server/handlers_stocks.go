package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/services/market"
)

// handleStockQuote handles GET /api/stocks/quote/{symbol}: the full quote
// payload.
func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Quote lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// handleStockPrice handles GET /api/stocks/price/{symbol}: the lightweight
// price tick used for polling.
func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/price/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Price lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch price")
		return
	}
	WriteJSON(w, http.StatusOK, quote.Tick())
}

// handleStockHistory handles GET /api/stocks/history/{symbol}?period=1D.
func (s *Server) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/history/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	period := models.ParsePeriod(r.URL.Query().Get("period"))

	series, err := s.app.MarketService.GetChartHistory(r.Context(), symbol, period)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("History lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleStockChart handles GET /api/stocks/chart/{symbol}?period=1D and
// returns a rendered PNG.
func (s *Server) handleStockChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/chart/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	period := models.ParsePeriod(r.URL.Query().Get("period"))

	series, err := s.app.MarketService.GetChartHistory(r.Context(), symbol, period)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("History lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	png, err := market.RenderPriceChart(series)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Chart render failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleStockSearch handles GET /api/stocks/search?query=...
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	results, err := s.app.MarketService.SearchStocks(r.Context(), query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Stock search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	WriteJSON(w, http.StatusOK, results)
}
