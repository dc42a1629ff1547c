// Package risk computes portfolio risk metrics: Value at Risk, Sharpe
// ratio, max drawdown, and annualized volatility, with plain-language
// recommendations. Return series are simulated; the metrics pipeline is the
// same one a real return history would flow through.
package risk

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

const (
	tradingDaysPerYear = 252
	riskFreeRate       = 0.02
	returnSamples      = 1000

	// Simulated daily return distribution.
	dailyReturnMean   = 0.001
	dailyReturnStddev = 0.02
)

// concentrationLimit flags a single holding dominating the portfolio.
const concentrationLimit = 0.5

// Service implements interfaces.RiskService.
type Service struct {
	logger *common.Logger
	seed   int64
}

func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger, seed: 42}
}

// AnalyzePortfolio computes the full risk profile for a snapshot. The
// simulated return series is deterministic so repeated analyses of the same
// portfolio agree.
func (s *Service) AnalyzePortfolio(ctx context.Context, snapshot *models.PortfolioSnapshot) (*models.RiskAnalysis, error) {
	value := snapshot.Portfolio.TotalValue

	returns := s.simulateReturns()

	var95 := percentile(returns, 5)
	var99 := percentile(returns, 1)
	sharpe := sharpeRatio(returns)
	maxDD := maxDrawdown(returns)
	volatility := stddev(returns) * math.Sqrt(tradingDaysPerYear)

	level := "Low"
	switch {
	case math.Abs(maxDD) > 0.25:
		level = "High"
	case math.Abs(maxDD) > 0.15:
		level = "Medium"
	}

	metrics := models.RiskMetrics{
		ValueAtRisk95:   round2(var95 * value),
		ValueAtRisk99:   round2(var99 * value),
		SharpeRatio:     round3(sharpe),
		MaxDrawdown:     round2(maxDD * 100),
		Volatility:      round2(volatility * 100),
		RiskLevel:       level,
		Recommendations: recommendations(level, sharpe, maxDD, snapshot.Holdings),
	}

	return &models.RiskAnalysis{
		PortfolioValue: value,
		Metrics:        metrics,
		AnalysisDate:   time.Now(),
	}, nil
}

// simulateReturns draws a fixed-seed normal daily return series.
func (s *Service) simulateReturns() []float64 {
	rng := rand.New(rand.NewSource(s.seed))
	returns := make([]float64, returnSamples)
	for i := range returns {
		returns[i] = rng.NormFloat64()*dailyReturnStddev + dailyReturnMean
	}
	return returns
}

// percentile computes the p-th percentile with linear interpolation.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// sharpeRatio annualizes the mean excess return over its volatility.
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate/tradingDaysPerYear
	}
	sd := stddev(excess)
	if sd == 0 {
		return 0
	}
	return mean(excess) / sd * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown returns the deepest peak-to-trough decline of the cumulative
// return path, as a negative fraction.
func maxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		dd := (cumulative - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// recommendations maps the risk profile to actionable guidance, plus a
// concentration warning when one holding dominates.
func recommendations(level string, sharpe, maxDD float64, holdings []models.Holding) []string {
	var recs []string

	switch level {
	case "High":
		recs = append(recs,
			"Consider reducing position sizes",
			"Implement strict stop-loss orders",
			"Diversify across uncorrelated assets",
			"Increase cash allocation",
		)
	case "Medium":
		recs = append(recs,
			"Maintain current diversification strategy",
			"Monitor positions regularly",
			"Consider hedging strategies",
			"Rebalance portfolio quarterly",
		)
	default:
		recs = append(recs,
			"Current risk level is appropriate",
			"Continue disciplined approach",
			"Consider slight increase in equity exposure",
			"Maintain emergency fund",
		)
	}

	if sharpe < 1 {
		recs = append(recs, "Consider strategies to improve risk-adjusted returns")
	}
	if math.Abs(maxDD*100) > 20 {
		recs = append(recs, "Implement drawdown control measures")
	}
	if concentrated(holdings) {
		recs = append(recs, "Diversify your portfolio: a single position dominates your holdings")
	}

	return recs
}

// concentrated reports whether one holding exceeds the concentration limit
// of the total holdings value.
func concentrated(holdings []models.Holding) bool {
	if len(holdings) < 2 {
		return false
	}
	var total float64
	for _, h := range holdings {
		total += h.CurrentValue
	}
	if total <= 0 {
		return false
	}
	for _, h := range holdings {
		if h.CurrentValue/total > concentrationLimit {
			return true
		}
	}
	return false
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
