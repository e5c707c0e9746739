package charts

import (
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// GaugeBandBoundary splits the red and green background bands. It is not the
// review threshold of the decision policy.
const GaugeBandBoundary = 60.0

// GaugeCaption is printed under the repayment gauge.
const GaugeCaption = "Probability that the client will pay the loan"

// Gauge is a 0-100 scale with a red band below GaugeBandBoundary, a green
// band above it and a bar at Value.
type Gauge struct {
	Value  float64
	Title  string
	Width  int
	Height int
}

// NewGauge returns a gauge for a repayment percentage, clamped to [0, 100].
func NewGauge(percentage float64) Gauge {
	return Gauge{
		Value:  min(max(percentage, 0), 100),
		Title:  GaugeCaption,
		Width:  defaultWidth,
		Height: 200,
	}
}

// Band names the background band under the bar: "red" or "green".
func (g Gauge) Band() string {
	if g.Value < GaugeBandBoundary {
		return "red"
	}
	return "green"
}

// SVG renders the gauge.
func (g Gauge) SVG() ([]byte, error) {
	ticks := make([]chart.Tick, 0, 6)
	for v := 0; v <= 100; v += 20 {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "0-60",
			XValues: []float64{0, GaugeBandBoundary},
			YValues: []float64{1, 1},
			Style:   chart.Style{FillColor: colorNotRepaid, StrokeColor: colorNotRepaid, StrokeWidth: 1},
		},
		chart.ContinuousSeries{
			Name:    "60-100",
			XValues: []float64{GaugeBandBoundary, 100},
			YValues: []float64{1, 1},
			Style:   chart.Style{FillColor: colorRepaid, StrokeColor: colorRepaid, StrokeWidth: 1},
		},
	}
	if g.Value > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "value",
			XValues: []float64{0, g.Value},
			YValues: []float64{0.5, 0.5},
			Style:   chart.Style{FillColor: colorGaugeBar, StrokeColor: colorGaugeBar, StrokeWidth: 1},
		})
	}
	series = append(series, chart.AnnotationSeries{
		Annotations: []chart.Value2{{XValue: g.Value, YValue: 0.75, Label: FormatPercentage(g.Value)}},
	})

	return render(chart.Chart{
		Title:      g.Title,
		TitleStyle: chart.Style{FontColor: colorAxis, FontSize: 11},
		Width:      g.Width,
		Height:     g.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: colorAxis, StrokeColor: colorAxis},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	})
}
