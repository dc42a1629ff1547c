package server

import (
	"math"
	"net/http"
)

// handleDashboardOverview handles GET /api/dashboard/overview: user profile,
// portfolio aggregates, learning progress, and a market summary in one call.
func (s *Server) handleDashboardOverview(w http.ResponseWriter, r *http.Request) {
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

	modules, err := s.app.EducationService.ListModules(r.Context(), user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Module listing failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch modules")
		return
	}

	completed := 0
	for _, m := range modules {
		if m.Completed {
			completed++
		}
	}
	progress := 0.0
	if len(modules) > 0 {
		progress = math.Round(float64(completed)/float64(len(modules))*1000) / 10
	}

	overview, err := s.app.MarketService.GetMarketOverview(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Market overview failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market overview")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"username":        user.Username,
			"learning_points": user.LearningPoints,
			"current_level":   user.CurrentLevel,
		},
		"portfolio": snapshot.Portfolio,
		"learning_progress": map[string]interface{}{
			"completed_modules": completed,
			"total_modules":     len(modules),
			"progress_percent":  progress,
		},
		"market_overview": map[string]interface{}{
			"total_symbols": overview.Summary.TotalSymbols,
			"sentiment":     overview.Summary.Sentiment,
			"timestamp":     overview.Timestamp,
		},
	})
}
