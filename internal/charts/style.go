package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = eris.New("charts: no data to plot")

var (
	colorRepaid    = drawing.ColorFromHex("008000")
	colorNotRepaid = drawing.ColorFromHex("ff0000")
	colorMarker    = drawing.ColorFromHex("0000ff")
	colorGaugeBar  = drawing.ColorFromHex("7cfc00")
	colorAxis      = drawing.ColorFromHex("00008b")
)

const (
	defaultWidth  = 500
	defaultHeight = 360
	markerWidth   = 3
)

func markerStyle() chart.Style {
	return chart.Style{
		StrokeColor:     colorMarker,
		StrokeWidth:     markerWidth,
		StrokeDashArray: []float64{6, 4},
	}
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
	}
}

func background() chart.Style {
	return chart.Style{
		FillColor: drawing.ColorWhite,
		Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
	}
}

func render(ch chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, eris.Wrap(err, "charts: render svg")
	}
	return buf.Bytes(), nil
}

// numberFormatter labels axis ticks with at most one decimal.
func numberFormatter(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	if math.Abs(f) >= 1000 {
		return printer.Sprintf("%.0f", f)
	}
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%.1f", f)
}

// densityFormatter labels density ticks, which are often tiny.
func densityFormatter(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%.3g", f)
}

// padRange widens [lo, hi] so the chart never sees a zero-width range.
func padRange(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Max(math.Abs(lo)*0.1, 1)
	return lo - pad, hi + pad
}
