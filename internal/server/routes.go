package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Stocks
	mux.HandleFunc("/api/stocks/quote/", s.handleStockQuote)
	mux.HandleFunc("/api/stocks/price/", s.handleStockPrice)
	mux.HandleFunc("/api/stocks/history/", s.handleStockHistory)
	mux.HandleFunc("/api/stocks/chart/", s.handleStockChart)
	mux.HandleFunc("/api/stocks/search", s.handleStockSearch)

	// Market
	mux.HandleFunc("/api/market/overview", s.handleMarketOverview)
	mux.HandleFunc("/api/market/status", s.handleMarketStatus)

	// Simulation
	mux.HandleFunc("/api/simulation/portfolio", s.handleSimulationPortfolio)
	mux.HandleFunc("/api/simulation/trade", s.handleSimulationTrade)

	// Education
	mux.HandleFunc("/api/education/modules", s.handleEducationModules)
	mux.HandleFunc("/api/education/modules/", s.handleEducationComplete)

	// Predictions
	mux.HandleFunc("/api/predictions/", s.handlePrediction)
	mux.HandleFunc("/api/analysis/", s.handleRealtimeAnalysis)

	// Risk
	mux.HandleFunc("/api/risk/analysis", s.handleRiskAnalysis)

	// Dashboard
	mux.HandleFunc("/api/dashboard/overview", s.handleDashboardOverview)

	// WebSocket
	mux.HandleFunc("/api/ws/portfolio", s.handlePortfolioWS)
}
