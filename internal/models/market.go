package models

import (
	"strings"
	"time"
)

// Period identifies the time span and granularity of a historical chart.
type Period string

const (
	Period1D Period = "1D"
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period1Y Period = "1Y"
)

// AllPeriods lists the supported chart periods, shortest first.
var AllPeriods = []Period{Period1D, Period1W, Period1M, Period3M, Period1Y}

// ParsePeriod normalizes a raw period string, falling back to 1D for
// anything unrecognized (matches the original API behavior).
func ParsePeriod(s string) Period {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range AllPeriods {
		if p == valid {
			return p
		}
	}
	return Period1D
}

// PriceTick is one instantaneous price observation for a symbol.
// Price is always > 0.
type PriceTick struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Quote is the full quote payload served by the stock endpoints.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	MarketCap     int64     `json:"market_cap,omitempty"`
	DayHigh       float64   `json:"day_high,omitempty"`
	DayLow        float64   `json:"day_low,omitempty"`
	Open          float64   `json:"open,omitempty"`
	PrevClose     float64   `json:"prev_close,omitempty"`
	Source        string    `json:"source,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Tick converts a quote to the PriceTick consumed by the ledger.
func (q *Quote) Tick() PriceTick {
	return PriceTick{
		Symbol:        q.Symbol,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,
		Timestamp:     q.Timestamp,
	}
}

// ChartSeries is an ordered label/point pair set for charting. Labels and
// Points always have equal length; the series is never mutated after creation.
type ChartSeries struct {
	Symbol    string    `json:"symbol"`
	Period    Period    `json:"period"`
	Labels    []string  `json:"labels"`
	Points    []float64 `json:"points"`
	Generated time.Time `json:"generated,omitempty"`
}

// MarketStatus reports whether the (simulated) exchange is currently open.
type MarketStatus struct {
	IsOpen    bool      `json:"is_open"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketOverview aggregates quotes for the popular symbols with a simple
// gainers/losers sentiment summary.
type MarketOverview struct {
	MarketData []Quote       `json:"market_data"`
	Summary    MarketSummary `json:"market_summary"`
	Timestamp  time.Time     `json:"timestamp"`
}

// MarketSummary is the breadth summary within a MarketOverview.
type MarketSummary struct {
	TotalSymbols int    `json:"total_symbols"`
	Gainers      int    `json:"gainers"`
	Losers       int    `json:"losers"`
	Neutral      int    `json:"neutral"`
	Sentiment    string `json:"sentiment"` // BULLISH, BEARISH, NEUTRAL
}
