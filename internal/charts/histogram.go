package charts

import (
	"math"

	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// Income histogram labels.
const (
	IncomeTitle       = "Client's Income vs Current clients"
	IncomeAxisLabel   = "Income"
	IncomeMarkerLabel = "Client's income"
)

// HistogramOptions bounds and bins the income histogram.
type HistogramOptions struct {
	Min  float64
	Max  float64
	Bins int
}

// DefaultHistogramOptions returns the income range [25000, 300000] in 40 bins.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{Min: model.IncomeRangeMin, Max: model.IncomeRangeMax, Bins: 40}
}

// HistogramChart is the stacked repaid/not-repaid income histogram of the
// reference table. Values outside [Min, Max] are left out; the marker is
// pulled into range and Clamped records that it was.
type HistogramChart struct {
	Title       string
	XLabel      string
	MarkerLabel string
	Min         float64
	Max         float64
	// Edges has len(Repaid)+1 bin boundaries.
	Edges     []float64
	Repaid    []int
	NotRepaid []int
	Excluded  int
	Marker    float64
	Clamped   bool
	Width     int
	Height    int
}

// NewIncomeHistogram bins rows by total income and marks income.
func NewIncomeHistogram(rows []model.ReferenceClient, income float64, opts HistogramOptions) (*HistogramChart, error) {
	if opts.Bins <= 0 {
		return nil, eris.Errorf("charts: bin count must be positive, got %d", opts.Bins)
	}
	if !(opts.Max > opts.Min) {
		return nil, eris.Errorf("charts: invalid income range [%v, %v]", opts.Min, opts.Max)
	}

	h := &HistogramChart{
		Title:       IncomeTitle,
		XLabel:      IncomeAxisLabel,
		MarkerLabel: IncomeMarkerLabel,
		Min:         opts.Min,
		Max:         opts.Max,
		Edges:       make([]float64, opts.Bins+1),
		Repaid:      make([]int, opts.Bins),
		NotRepaid:   make([]int, opts.Bins),
		Width:       defaultWidth,
		Height:      defaultHeight,
	}

	width := (opts.Max - opts.Min) / float64(opts.Bins)
	for i := range h.Edges {
		h.Edges[i] = opts.Min + float64(i)*width
	}
	h.Edges[opts.Bins] = opts.Max

	for _, r := range rows {
		v := r.TotalIncome
		if math.IsNaN(v) || v < opts.Min || v > opts.Max {
			h.Excluded++
			continue
		}
		i := min(int((v-opts.Min)/width), opts.Bins-1)
		if r.Repaid() {
			h.Repaid[i]++
		} else {
			h.NotRepaid[i]++
		}
	}

	h.Marker = income
	switch {
	case math.IsNaN(income):
		h.Marker, h.Clamped = opts.Min, true
	case income < opts.Min:
		h.Marker, h.Clamped = opts.Min, true
	case income > opts.Max:
		h.Marker, h.Clamped = opts.Max, true
	}
	return h, nil
}

// Total returns the number of rows plotted.
func (h *HistogramChart) Total() int {
	n := 0
	for i := range h.Repaid {
		n += h.Repaid[i] + h.NotRepaid[i]
	}
	return n
}

func (h *HistogramChart) steps(counts func(i int) int) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(h.Repaid))
	ys := make([]float64, 0, 2*len(h.Repaid))
	for i := range h.Repaid {
		c := float64(counts(i))
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, c, c)
	}
	return xs, ys
}

// SVG renders the histogram. Not-repaid counts are stacked on top of the
// repaid ones.
func (h *HistogramChart) SVG() ([]byte, error) {
	if len(h.Repaid) == 0 {
		return nil, ErrNoData
	}

	peak := 0
	for i := range h.Repaid {
		peak = max(peak, h.Repaid[i]+h.NotRepaid[i])
	}
	top := math.Max(float64(peak)*1.1, 1)

	totalX, totalY := h.steps(func(i int) int { return h.Repaid[i] + h.NotRepaid[i] })
	repaidX, repaidY := h.steps(func(i int) int { return h.Repaid[i] })

	label := h.MarkerLabel
	if h.Clamped {
		label += " (out of range)"
	}

	return render(chart.Chart{
		Title:      h.Title,
		TitleStyle: chart.Style{FontSize: 11},
		Width:      h.Width,
		Height:     h.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:           h.XLabel,
			Range:          &chart.ContinuousRange{Min: h.Min, Max: h.Max},
			ValueFormatter: numberFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "count",
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: numberFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    LabelNotRepaid,
				XValues: totalX,
				YValues: totalY,
				Style:   chart.Style{FillColor: colorNotRepaid, StrokeColor: colorNotRepaid, StrokeWidth: 0.5},
			},
			chart.ContinuousSeries{
				Name:    LabelRepaid,
				XValues: repaidX,
				YValues: repaidY,
				Style:   chart.Style{FillColor: colorRepaid, StrokeColor: colorRepaid, StrokeWidth: 0.5},
			},
			chart.ContinuousSeries{
				Name:    label,
				XValues: []float64{h.Marker, h.Marker},
				YValues: []float64{0, top},
				Style:   markerStyle(),
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{XValue: h.Marker, YValue: top, Label: label}},
			},
		},
	})
}
