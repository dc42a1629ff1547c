// Package prediction generates technical forecasts for the education
// surface. Indicator values are simulated rather than computed from a real
// feed, but the scoring pipeline (weighted technical, volume, pattern, and
// sentiment components) is the one real indicator data would flow through.
package prediction

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

// Component weights for the overall score.
const (
	technicalWeight = 0.4
	volumeWeight    = 0.3
	patternWeight   = 0.2
	sentimentWeight = 0.1
)

// volumeBaseline normalizes raw share volume before classification.
const volumeBaseline = 1_000_000

var (
	bullishPatterns = []string{"rising wedge", "cup and handle", "double bottom", "bull flag"}
	bearishPatterns = []string{"falling wedge", "head and shoulders", "double top", "bear flag"}
	neutralPatterns = []string{"triangle", "rectangle", "channel"}
)

// Service implements interfaces.PredictionService.
type Service struct {
	logger *common.Logger
	seed   int64
}

func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger, seed: 42}
}

// rng derives a per-symbol generator so repeated forecasts for the same
// symbol agree while different symbols diverge.
func (s *Service) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))
}

// Predict builds the full forecast for a symbol from its current price and
// volume. The overall score blends four components; the score band decides
// direction, expected move, and confidence.
func (s *Service) Predict(ctx context.Context, symbol string, price float64, volume int64) (*models.Prediction, error) {
	rng := s.rng(symbol)

	technical := technicalScore(rng)
	volumeRead := analyzeVolume(volume)
	pattern := identifyPattern(rng)
	sentiment := rng.Float64()*2 - 1

	// Sentiment is in [-1, 1] and can pull the overall score negative.
	overall := technical*technicalWeight +
		volumeRead.Score*volumeWeight +
		pattern.Score*patternWeight +
		sentiment*sentimentWeight

	direction, changePercent, confidence := classify(rng, overall)

	pred := &models.Prediction{
		PredictedPrice: round2(price * (1 + changePercent/100)),
		Confidence:     round1(confidence),
		ChangePercent:  round2(changePercent),
		Direction:      direction,
		Reasoning:      reasoning(symbol, direction, changePercent, technical, volumeRead, pattern, sentiment),
		TechnicalAnalysis: models.TechnicalAnalysis{
			OverallScore:   round3(overall),
			TechnicalScore: round3(technical),
			Volume:         volumeRead,
			Pattern:        pattern,
			SentimentScore: round3(sentiment),
		},
		Indicators: indicators(rng, price, direction),
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Str("direction", direction).
		Float64("confidence", pred.Confidence).
		Msg("Forecast generated")

	return pred, nil
}

// AnalyzeRealtime produces the live technical read for a symbol. The trend
// follows the forecast direction; key levels are fixed fractions of price.
func (s *Service) AnalyzeRealtime(ctx context.Context, symbol string, price float64) (*models.RealtimeAnalysis, error) {
	pred, err := s.Predict(ctx, symbol, price, volumeBaseline)
	if err != nil {
		return nil, err
	}
	rng := s.rng(symbol + ":realtime")

	return &models.RealtimeAnalysis{
		Symbol:    strings.ToUpper(symbol),
		Timestamp: time.Now(),
		MarketSummary: models.MarketRead{
			Trend:           pred.Direction,
			Volatility:      pick(rng, "Low", "Medium", "High"),
			Momentum:        pick(rng, "Strong", "Moderate", "Weak"),
			SupportLevel:    round2(price * 0.95),
			ResistanceLevel: round2(price * 1.05),
		},
		KeyLevels: models.KeyLevels{
			ImmediateSupport:    round2(price * 0.98),
			ImmediateResistance: round2(price * 1.02),
			MajorSupport:        round2(price * 0.92),
			MajorResistance:     round2(price * 1.08),
		},
		TradingSignals: []string{
			fmt.Sprintf("RSI showing %s conditions", pick(rng, "oversold", "overbought", "neutral")),
			fmt.Sprintf("Volume %s", pick(rng, "increasing", "decreasing", "stable")),
			fmt.Sprintf("MACD %s", pick(rng, "bullish crossover", "bearish crossover", "neutral")),
			fmt.Sprintf("Price action suggests %s", pick(rng, "breakout", "breakdown", "consolidation")),
		},
	}, nil
}

// classify maps the overall score band to direction, an expected move drawn
// from the band's range, and a confidence that grows with score extremity.
func classify(rng *rand.Rand, overall float64) (direction string, changePercent, confidence float64) {
	switch {
	case overall > 0.6:
		return "up", uniform(rng, 2, 8), math.Min(95, 70+(overall-0.6)*100)
	case overall > 0.4:
		return "up", uniform(rng, 0.5, 3), 65 + (overall-0.4)*25
	case overall > 0.2:
		return "neutral", uniform(rng, -1, 1), 60
	case overall > -0.2:
		return "down", uniform(rng, -3, -0.5), 65 + math.Abs(overall-0.2)*25
	default:
		return "down", uniform(rng, -8, -2), math.Min(95, 70+math.Abs(overall+0.2)*100)
	}
}

// technicalScore blends simulated RSI, MACD, and moving-average readings
// into a single [0, 1] score.
func technicalScore(rng *rand.Rand) float64 {
	rsi := uniform(rng, 20, 80)
	macd := uniform(rng, -2, 2)
	maTrend := uniform(rng, -0.1, 0.1)

	rsiScore := 1 - math.Abs(rsi-50)/50
	macdScore := math.Max(0, 1-math.Abs(macd)/2)
	maScore := 0.5 + maTrend*5

	return rsiScore*0.4 + macdScore*0.3 + maScore*0.3
}

// analyzeVolume classifies volume against the 1M-share baseline.
func analyzeVolume(volume int64) models.VolumeAnalysis {
	ratio := float64(volume) / volumeBaseline
	switch {
	case ratio > 2:
		return models.VolumeAnalysis{
			Trend:       "very_high",
			Score:       0.9,
			Description: "exceptionally high volume indicating strong interest",
			Implication: "High volume confirms the price direction",
		}
	case ratio > 1.5:
		return models.VolumeAnalysis{
			Trend:       "high",
			Score:       0.7,
			Description: "above-average volume supporting the move",
			Implication: "Elevated volume adds conviction",
		}
	case ratio > 0.8:
		return models.VolumeAnalysis{
			Trend:       "normal",
			Score:       0.5,
			Description: "normal trading volume",
			Implication: "Volume is neutral for the price direction",
		}
	default:
		return models.VolumeAnalysis{
			Trend:       "low",
			Score:       0.3,
			Description: "below-average volume showing limited participation",
			Implication: "Low volume weakens conviction in the move",
		}
	}
}

// identifyPattern picks a chart pattern; the pattern type bounds its score.
func identifyPattern(rng *rand.Rand) models.PatternAnalysis {
	var pattern, kind string
	var score float64
	switch rng.Intn(3) {
	case 0:
		pattern = pick(rng, bullishPatterns...)
		kind = "bullish"
		score = uniform(rng, 0.6, 0.9)
	case 1:
		pattern = pick(rng, bearishPatterns...)
		kind = "bearish"
		score = uniform(rng, 0.1, 0.4)
	default:
		pattern = pick(rng, neutralPatterns...)
		kind = "neutral"
		score = uniform(rng, 0.4, 0.6)
	}
	return models.PatternAnalysis{
		Pattern:     pattern,
		Type:        kind,
		Score:       round3(score),
		Description: fmt.Sprintf("Chart shows a %s %s formation", kind, pattern),
	}
}

// indicators simulates indicator readings consistent with the direction.
func indicators(rng *rand.Rand, price float64, direction string) models.TechnicalIndicators {
	var rsi, macd, stochastic, williamsR, cci float64
	switch direction {
	case "up":
		rsi = uniform(rng, 45, 65)
		macd = uniform(rng, 0.1, 2.0)
		stochastic = uniform(rng, 50, 80)
		williamsR = uniform(rng, -80, -20)
		cci = uniform(rng, 50, 200)
	case "down":
		rsi = uniform(rng, 35, 55)
		macd = uniform(rng, -2.0, -0.1)
		stochastic = uniform(rng, 20, 50)
		williamsR = uniform(rng, -30, -10)
		cci = uniform(rng, -200, -50)
	default:
		rsi = uniform(rng, 40, 60)
		macd = uniform(rng, -0.5, 0.5)
		stochastic = uniform(rng, 40, 60)
		williamsR = uniform(rng, -60, -40)
		cci = uniform(rng, -50, 50)
	}

	smaDrift := 1.02
	emaDrift := 1.01
	if direction == "down" {
		smaDrift = 0.98
		emaDrift = 0.99
	}

	return models.TechnicalIndicators{
		RSI:        round2(rsi),
		MACD:       round3(macd),
		Stochastic: round2(stochastic),
		WilliamsR:  round2(williamsR),
		CCI:        round2(cci),
		Bollinger: models.BollingerBands{
			Upper:  round2(price * 1.02),
			Middle: round2(price),
			Lower:  round2(price * 0.98),
		},
		MovingAverages: models.MovingAverages{
			SMA20: round2(price * smaDrift),
			EMA20: round2(price * emaDrift),
			SMA50: round2(price * 0.97),
			EMA50: round2(price * 0.98),
		},
	}
}

// reasoning assembles the plain-language explanation for the forecast.
func reasoning(symbol, direction string, changePercent, technical float64, volumeRead models.VolumeAnalysis, pattern models.PatternAnalysis, sentiment float64) string {
	var lines []string

	switch {
	case technical > 0.7:
		lines = append(lines, "exceptionally strong technical setup with multiple confirmations")
	case technical > 0.6:
		lines = append(lines, "favorable technical indicators aligning positively")
	case technical < 0.3:
		lines = append(lines, "weak technical structure showing multiple bearish signals")
	case technical < 0.4:
		lines = append(lines, "deteriorating technical conditions")
	default:
		lines = append(lines, "mixed technical signals with no clear dominance")
	}

	if volumeRead.Score > 0.7 || volumeRead.Score < 0.4 {
		lines = append(lines, volumeRead.Description)
	}
	lines = append(lines, fmt.Sprintf("chart shows %s formation", pattern.Pattern))

	if sentiment > 0.3 {
		lines = append(lines, "positive market sentiment supporting upward movement")
	} else if sentiment < -0.3 {
		lines = append(lines, "negative market sentiment creating headwinds")
	}

	momentum := "limited momentum"
	if math.Abs(changePercent) > 5 {
		momentum = "strong momentum"
	} else if math.Abs(changePercent) > 2 {
		momentum = "moderate momentum"
	}

	action := "consolidate"
	switch direction {
	case "up":
		action = "rise"
	case "down":
		action = "fall"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is expected to %s by %.2f%%.\n\nTechnical analysis:\n", strings.ToUpper(symbol), action, math.Abs(changePercent))
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	fmt.Fprintf(&b, "\nMarket dynamics:\n- %s indicated by price action\n- %s\n- %s\n", momentum, volumeRead.Implication, pattern.Description)
	fmt.Fprintf(&b, "\nThis combines indicator readings, volume, and chart patterns into a single educational forecast. It is not investment advice.")
	return b.String()
}

func pick[T any](rng *rand.Rand, options ...T) T {
	return options[rng.Intn(len(options))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
