package charts

import (
	"math"

	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// Series labels shared by the statistics charts.
const (
	LabelRepaid    = "Repaid"
	LabelNotRepaid = "Not repaid"
)

// DensityChart compares the repaid and not-repaid densities of one metric
// and marks the selected client's own value.
type DensityChart struct {
	Title       string
	XLabel      string
	MarkerLabel string
	Marker      float64
	Repaid      Curve
	NotRepaid   Curve
	Width       int
	Height      int
}

// NewDensityChart smooths both histograms of dist and marks marker.
func NewDensityChart(dist model.StatDistribution, marker float64) (*DensityChart, error) {
	repaid, err := BucketKDE(dist.Repaid, DefaultKDEPoints)
	if err != nil {
		return nil, eris.Wrapf(err, "charts: %s repaid", dist.Kind)
	}
	notRepaid, err := BucketKDE(dist.NotRepaid, DefaultKDEPoints)
	if err != nil {
		return nil, eris.Wrapf(err, "charts: %s not repaid", dist.Kind)
	}
	if repaid.Empty() && notRepaid.Empty() {
		return nil, eris.Wrapf(ErrNoData, "charts: %s", dist.Kind)
	}

	return &DensityChart{
		Title:       dist.Kind.Title(),
		XLabel:      dist.Kind.AxisLabel(),
		MarkerLabel: dist.Kind.MarkerLabel(),
		Marker:      marker,
		Repaid:      repaid,
		NotRepaid:   notRepaid,
		Width:       defaultWidth,
		Height:      defaultHeight,
	}, nil
}

// XRange spans both curves and the marker.
func (d *DensityChart) XRange() (float64, float64) {
	lo, hi := d.Marker, d.Marker
	for _, c := range []Curve{d.Repaid, d.NotRepaid} {
		for _, x := range c.X {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	return padRange(lo, hi)
}

// SVG renders the chart.
func (d *DensityChart) SVG() ([]byte, error) {
	if d.Repaid.Empty() && d.NotRepaid.Empty() {
		return nil, ErrNoData
	}

	top := math.Max(d.Repaid.MaxY(), d.NotRepaid.MaxY()) * 1.1
	if top <= 0 {
		top = 1
	}
	lo, hi := d.XRange()

	var series []chart.Series
	if !d.Repaid.Empty() {
		series = append(series, chart.ContinuousSeries{
			Name: LabelRepaid, XValues: d.Repaid.X, YValues: d.Repaid.Y, Style: lineStyle(colorRepaid),
		})
	}
	if !d.NotRepaid.Empty() {
		series = append(series, chart.ContinuousSeries{
			Name: LabelNotRepaid, XValues: d.NotRepaid.X, YValues: d.NotRepaid.Y, Style: lineStyle(colorNotRepaid),
		})
	}
	series = append(series,
		chart.ContinuousSeries{
			Name:    d.MarkerLabel,
			XValues: []float64{d.Marker, d.Marker},
			YValues: []float64{0, top},
			Style:   markerStyle(),
		},
		chart.AnnotationSeries{
			Annotations: []chart.Value2{{XValue: d.Marker, YValue: top, Label: d.MarkerLabel}},
		},
	)

	ch := chart.Chart{
		Title:      d.Title,
		TitleStyle: chart.Style{FontSize: 11},
		Width:      d.Width,
		Height:     d.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:           d.XLabel,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: numberFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "density",
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: densityFormatter,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch)
}
