package models

import "time"

// Prediction is a technical forecast for a symbol: target price, direction,
// confidence, and the sub-analyses the forecast was derived from.
type Prediction struct {
	PredictedPrice    float64             `json:"predicted_price"`
	Confidence        float64             `json:"confidence"`
	ChangePercent     float64             `json:"change_percent"`
	Direction         string              `json:"direction"` // up, down, neutral
	Reasoning         string              `json:"reasoning"`
	TechnicalAnalysis TechnicalAnalysis   `json:"technical_analysis"`
	Indicators        TechnicalIndicators `json:"indicators"`
}

// TechnicalAnalysis breaks the overall score into its weighted components.
// Scores are in [0, 1] except SentimentScore, which is in [-1, 1].
type TechnicalAnalysis struct {
	OverallScore   float64         `json:"overall_score"`
	TechnicalScore float64         `json:"technical_score"`
	Volume         VolumeAnalysis  `json:"volume_analysis"`
	Pattern        PatternAnalysis `json:"pattern_analysis"`
	SentimentScore float64         `json:"sentiment_score"`
}

// VolumeAnalysis classifies trading volume relative to a 1M-share baseline.
type VolumeAnalysis struct {
	Trend       string  `json:"trend"` // very_high, high, normal, low
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Implication string  `json:"implication"`
}

// PatternAnalysis names the chart pattern backing the forecast.
type PatternAnalysis struct {
	Pattern     string  `json:"pattern"`
	Type        string  `json:"type"` // bullish, bearish, neutral
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// TechnicalIndicators carries indicator values consistent with the
// predicted direction, for rendering on charts.
type TechnicalIndicators struct {
	RSI            float64        `json:"rsi"`
	MACD           float64        `json:"macd"`
	Stochastic     float64        `json:"stochastic"`
	WilliamsR      float64        `json:"williams_r"`
	CCI            float64        `json:"cci"`
	Bollinger      BollingerBands `json:"bollinger_bands"`
	MovingAverages MovingAverages `json:"moving_averages"`
}

// BollingerBands are price bands around the current price.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// MovingAverages holds simple and exponential averages at two windows.
type MovingAverages struct {
	SMA20 float64 `json:"sma_20"`
	EMA20 float64 `json:"ema_20"`
	SMA50 float64 `json:"sma_50"`
	EMA50 float64 `json:"ema_50"`
}

// PredictionResponse is the full prediction payload: the forecast plus the
// current price and recent chart history for context.
type PredictionResponse struct {
	Symbol       string       `json:"symbol"`
	CurrentPrice float64      `json:"current_price"`
	Prediction
	PriceHistory *ChartSeries `json:"price_history"`
	Timestamp    time.Time    `json:"timestamp"`
}

// RealtimeAnalysis is the live technical read on a symbol: trend summary,
// support/resistance levels, and signal commentary.
type RealtimeAnalysis struct {
	Symbol         string     `json:"symbol"`
	Timestamp      time.Time  `json:"timestamp"`
	MarketSummary  MarketRead `json:"market_summary"`
	KeyLevels      KeyLevels  `json:"key_levels"`
	TradingSignals []string   `json:"trading_signals"`
}

// MarketRead summarizes trend, volatility, and momentum with the nearest
// support and resistance.
type MarketRead struct {
	Trend           string  `json:"trend"`
	Volatility      string  `json:"volatility"` // Low, Medium, High
	Momentum        string  `json:"momentum"`   // Strong, Moderate, Weak
	SupportLevel    float64 `json:"support_level"`
	ResistanceLevel float64 `json:"resistance_level"`
}

// KeyLevels are price levels derived as fixed fractions of the current
// price: immediate levels at ±2%, major levels at ±8%.
type KeyLevels struct {
	ImmediateSupport    float64 `json:"immediate_support"`
	ImmediateResistance float64 `json:"immediate_resistance"`
	MajorSupport        float64 `json:"major_support"`
	MajorResistance     float64 `json:"major_resistance"`
}
