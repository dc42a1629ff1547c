package models

import "time"

// RiskAnalysis summarizes risk metrics for a portfolio snapshot.
type RiskAnalysis struct {
	PortfolioValue float64     `json:"portfolio_value"`
	Metrics        RiskMetrics `json:"risk_metrics"`
	AnalysisDate   time.Time   `json:"analysis_date"`
}

// RiskMetrics holds the individual risk figures. VaR values are negative
// (worst expected loss at the given confidence).
type RiskMetrics struct {
	ValueAtRisk95   float64  `json:"value_at_risk_95"`
	ValueAtRisk99   float64  `json:"value_at_risk_99"`
	SharpeRatio     float64  `json:"sharpe_ratio"`
	MaxDrawdown     float64  `json:"max_drawdown"`
	Volatility      float64  `json:"volatility"`
	RiskLevel       string   `json:"risk_level"` // Low, Medium, High
	Recommendations []string `json:"recommendations"`
}
