package server

import "net/http"

// handleMarketOverview handles GET /api/market/overview.
func (s *Server) handleMarketOverview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	overview, err := s.app.MarketService.GetMarketOverview(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Market overview failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market overview")
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// handleMarketStatus handles GET /api/market/status.
func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status, err := s.app.MarketService.GetMarketStatus(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Market status failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market status")
		return
	}
	WriteJSON(w, http.StatusOK, status)
}
