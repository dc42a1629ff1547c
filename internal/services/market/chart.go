package market

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/papertrade/internal/models"
)

// RenderPriceChart renders a ChartSeries as a PNG line chart. Returns raw
// PNG bytes.
func RenderPriceChart(series *models.ChartSeries) ([]byte, error) {
	if series == nil || len(series.Points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points to render a chart")
	}

	xValues := make([]float64, len(series.Points))
	for i := range xValues {
		xValues[i] = float64(i)
	}

	labels := series.Labels
	// Thin the axis labels so long series stay readable.
	labelStep := 1
	if len(labels) > 12 {
		labelStep = len(labels) / 12
	}

	priceSeries := chart.ContinuousSeries{
		Name: series.Symbol,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: series.Points,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s)", series.Symbol, series.Period),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(math.Round(f))
				if i < 0 || i >= len(labels) || i%labelStep != 0 {
					return ""
				}
				return labels[i]
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{priceSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
