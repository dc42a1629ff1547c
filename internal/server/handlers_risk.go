package server

import "net/http"

// handleRiskAnalysis handles GET /api/risk/analysis for the authenticated
// user's portfolio.
func (s *Server) handleRiskAnalysis(w http.ResponseWriter, r *http.Request) {
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

	analysis, err := s.app.RiskService.AnalyzePortfolio(r.Context(), snapshot)
	if err != nil {
		s.logger.Error().Err(err).Msg("Risk analysis failed")
		WriteError(w, http.StatusInternalServerError, "Risk analysis failed")
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}
