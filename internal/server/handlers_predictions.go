package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/papertrade/internal/models"
)

// handlePrediction handles GET /api/predictions/{symbol}. The quote and
// history lookups never fail (they degrade to synthetic data), so the
// forecast is always available.
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.requireUser(w, r) == nil {
		return
	}

	symbol := PathParam(r, "/api/predictions/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}

	pred, err := s.app.PredictionService.Predict(r.Context(), symbol, quote.Price, quote.Volume)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Forecast failed")
		WriteError(w, http.StatusInternalServerError, "Failed to generate prediction")
		return
	}

	history, err := s.app.MarketService.GetChartHistory(r.Context(), symbol, models.Period1M)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("History fetch failed")
		history = nil
	}

	WriteJSON(w, http.StatusOK, models.PredictionResponse{
		Symbol:       strings.ToUpper(symbol),
		CurrentPrice: quote.Price,
		Prediction:   *pred,
		PriceHistory: history,
		Timestamp:    time.Now(),
	})
}

// handleRealtimeAnalysis handles GET /api/analysis/{symbol}/realtime.
func (s *Server) handleRealtimeAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.requireUser(w, r) == nil {
		return
	}

	symbol := PathParam(r, "/api/analysis/", "/realtime")
	if symbol == "" || !strings.HasSuffix(r.URL.Path, "/realtime") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}

	analysis, err := s.app.PredictionService.AnalyzeRealtime(r.Context(), symbol, quote.Price)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Realtime analysis failed")
		WriteError(w, http.StatusInternalServerError, "Failed to generate analysis")
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}
