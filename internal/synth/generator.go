// Package synth generates believable synthetic price data: single-tick quotes
// and full historical series. It is the fallback of last resort when no real
// price source is reachable, so nothing in this package can fail.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bobmcallan/papertrade/internal/models"
)

// minTickPrice is the floor applied to generated tick prices. The walk never
// returns a zero or negative price.
const minTickPrice = 0.01

// minSeriesPrice is the floor applied to each point of a historical series.
const minSeriesPrice = 1.0

// momentumWeight biases each step of the historical walk by a fraction of the
// previous step's fractional change, producing visually plausible trends.
const momentumWeight = 0.3

// periodVolatility is the per-step volatility for each chart period,
// monotonically increasing with period length.
var periodVolatility = map[models.Period]float64{
	models.Period1D: 0.8,
	models.Period1W: 1.5,
	models.Period1M: 2.5,
	models.Period3M: 4.0,
	models.Period1Y: 6.0,
}

// Generator produces synthetic ticks and history series. Safe for concurrent
// use; the zero value is not usable, construct with NewGenerator.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator creates a generator with a fixed seed for reproducible
// series in tests.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// BasePrice derives a deterministic pseudo-base price from the symbol's
// characters, so the same symbol always anchors near the same price band.
// Pure function of the symbol only.
func BasePrice(symbol string) float64 {
	var sum int
	for i := 0; i < 2; i++ {
		if i < len(symbol) {
			sum += int(symbol[i])
		} else {
			sum += '.'
		}
	}
	return float64(sum%200 + 100)
}

// NextTick draws a uniform delta in [-1, +1] applied to prev (or the symbol's
// base price when prev is nil) and derives change, change percent, and a
// random volume. The returned price is always positive.
func (g *Generator) NextTick(symbol string, prev *float64) models.PriceTick {
	anchor := BasePrice(symbol)
	if prev != nil && *prev > 0 {
		anchor = *prev
	}

	g.mu.Lock()
	delta := g.rng.Float64()*2 - 1
	volume := 15_000_000 + g.rng.Int63n(30_000_000)
	g.mu.Unlock()

	price := anchor + delta
	if price < minTickPrice {
		price = minTickPrice
	}

	change := price - anchor
	changePct := 0.0
	if anchor > 0 {
		changePct = change / anchor * 100
	}

	return models.PriceTick{
		Symbol:        symbol,
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(changePct),
		Volume:        volume,
		Timestamp:     g.now(),
	}
}

// History produces a full chart series for the symbol and period using a
// momentum-weighted random walk. The walk starts at anchor (or the symbol's
// base price when anchor is nil) and every point is floored at 1 price unit.
// labels and points always have the period's fixed bucket count.
func (g *Generator) History(symbol string, period models.Period, anchor *float64) *models.ChartSeries {
	labels := g.periodLabels(period)
	vol, ok := periodVolatility[period]
	if !ok {
		vol = periodVolatility[models.Period1D]
	}

	price := BasePrice(symbol)
	if anchor != nil && *anchor > 0 {
		price = *anchor
	}

	points := make([]float64, len(labels))
	prevReturn := 0.0

	g.mu.Lock()
	for i := range points {
		drift := g.rng.Float64() - 0.45 // uniform in [-0.45, 0.55)
		delta := (drift + momentumWeight*prevReturn) * vol

		prev := price
		price += delta
		if price < minSeriesPrice {
			price = minSeriesPrice
		}
		if prev > 0 {
			prevReturn = (price - prev) / prev
		}
		points[i] = round2(price)
	}
	g.mu.Unlock()

	return &models.ChartSeries{
		Symbol:    symbol,
		Period:    period,
		Labels:    labels,
		Points:    points,
		Generated: g.now(),
	}
}

// periodLabels returns the fixed bucket labels for a period: intraday
// half-hour marks for 1D, weekday names for 1W, numbered days for 1M, and
// trailing month abbreviations for 3M and 1Y.
func (g *Generator) periodLabels(period models.Period) []string {
	switch period {
	case models.Period1W:
		return []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	case models.Period1M:
		labels := make([]string, 20)
		for i := range labels {
			labels[i] = fmt.Sprintf("Day %d", i+1)
		}
		return labels
	case models.Period3M:
		return g.trailingMonths(3)
	case models.Period1Y:
		return g.trailingMonths(12)
	default: // 1D
		labels := make([]string, 14)
		t := time.Date(2000, 1, 1, 9, 30, 0, 0, time.UTC)
		for i := range labels {
			labels[i] = t.Format("15:04")
			t = t.Add(30 * time.Minute)
		}
		return labels
	}
}

// trailingMonths returns the last n month abbreviations ending at the
// current month.
func (g *Generator) trailingMonths(n int) []string {
	labels := make([]string, n)
	now := g.now()
	// Anchor at the first of the month so stepping back never skips a month
	// on day-31 normalization.
	t := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		labels[i] = t.Month().String()[:3]
		t = t.AddDate(0, -1, 0)
	}
	return labels
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
