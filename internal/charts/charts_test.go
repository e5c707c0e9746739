package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/risk-dashboard/internal/model"
)

func TestGauge_ClampsAndBands(t *testing.T) {
	assert.Equal(t, 0.0, NewGauge(-5).Value)
	assert.Equal(t, 100.0, NewGauge(140).Value)

	// The band boundary differs from the review threshold of the decision policy.
	assert.Equal(t, "red", NewGauge(55).Band())
	assert.Equal(t, "red", NewGauge(59.9).Band())
	assert.Equal(t, "green", NewGauge(60).Band())
	assert.Equal(t, "green", NewGauge(81.2).Band())
}

func TestGauge_SVG(t *testing.T) {
	for _, v := range []float64{0, 12.3, 60, 100} {
		svg, err := NewGauge(v).SVG()
		require.NoError(t, err)
		assert.Contains(t, string(svg), "<svg")
		assert.Contains(t, string(svg), FormatPercentage(v))
	}
}

func agesDistribution() model.StatDistribution {
	return model.StatDistribution{
		Kind:      model.StatAges,
		Repaid:    model.BucketMap{"25": 3, "30": 7, "41": 2, "58": 5},
		NotRepaid: model.BucketMap{"22": 4, "27": 6, "35": 1},
	}
}

func TestNewDensityChart(t *testing.T) {
	d, err := NewDensityChart(agesDistribution(), 35)
	require.NoError(t, err)

	assert.Equal(t, model.StatAges.Title(), d.Title)
	assert.Equal(t, "Ages", d.XLabel)
	assert.Equal(t, "Client's age", d.MarkerLabel)
	assert.Len(t, d.Repaid.X, DefaultKDEPoints)
	assert.Len(t, d.NotRepaid.X, DefaultKDEPoints)

	lo, hi := d.XRange()
	assert.Equal(t, 22.0, lo)
	assert.InDelta(t, 58.0, hi, 1e-9)
}

func TestDensityChart_XRangeIncludesMarker(t *testing.T) {
	d, err := NewDensityChart(agesDistribution(), 80)
	require.NoError(t, err)

	_, hi := d.XRange()
	assert.Equal(t, 80.0, hi)
}

func TestDensityChart_SVG(t *testing.T) {
	d, err := NewDensityChart(agesDistribution(), 35)
	require.NoError(t, err)

	svg, err := d.SVG()
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), LabelRepaid)
	assert.Contains(t, string(svg), LabelNotRepaid)
}

func TestDensityChart_OneSideEmpty(t *testing.T) {
	dist := agesDistribution()
	dist.NotRepaid = model.BucketMap{}

	d, err := NewDensityChart(dist, 35)
	require.NoError(t, err)
	assert.True(t, d.NotRepaid.Empty())

	_, err = d.SVG()
	require.NoError(t, err)
}

func TestDensityChart_NoData(t *testing.T) {
	_, err := NewDensityChart(model.StatDistribution{Kind: model.StatAges}, 35)
	require.ErrorIs(t, err, ErrNoData)
}

func TestDensityChart_BadBucket(t *testing.T) {
	dist := agesDistribution()
	dist.Repaid = model.BucketMap{"thirty": 1}

	_, err := NewDensityChart(dist, 35)
	require.Error(t, err)
}

func referenceRows() []model.ReferenceClient {
	return []model.ReferenceClient{
		{TotalIncome: 25000, Target: 0},
		{TotalIncome: 30000, Target: 1},
		{TotalIncome: 31000, Target: 0},
		{TotalIncome: 150000, Target: 0},
		{TotalIncome: 300000, Target: 1},
		{TotalIncome: 24999, Target: 0},
		{TotalIncome: 1_000_000, Target: 1},
		{TotalIncome: math.NaN(), Target: 0},
	}
}

func TestNewIncomeHistogram_Binning(t *testing.T) {
	h, err := NewIncomeHistogram(referenceRows(), 150000, DefaultHistogramOptions())
	require.NoError(t, err)

	require.Len(t, h.Edges, 41)
	assert.Equal(t, 25000.0, h.Edges[0])
	assert.Equal(t, 300000.0, h.Edges[40])

	// Bin width is 6875: 25000, 30000 and 31000 share the first bin.
	assert.Equal(t, 2, h.Repaid[0])
	assert.Equal(t, 1, h.NotRepaid[0])
	// The upper bound lands in the last bin.
	assert.Equal(t, 1, h.NotRepaid[39])
	assert.Equal(t, 3, h.Excluded)
	assert.Equal(t, 5, h.Total())
	assert.False(t, h.Clamped)
	assert.Equal(t, 150000.0, h.Marker)
}

func TestNewIncomeHistogram_ClampsMarker(t *testing.T) {
	opts := DefaultHistogramOptions()

	h, err := NewIncomeHistogram(nil, 1_500_000, opts)
	require.NoError(t, err)
	assert.True(t, h.Clamped)
	assert.Equal(t, opts.Max, h.Marker)

	h, err = NewIncomeHistogram(nil, 1000, opts)
	require.NoError(t, err)
	assert.True(t, h.Clamped)
	assert.Equal(t, opts.Min, h.Marker)

	svg, err := h.SVG()
	require.NoError(t, err)
	assert.Contains(t, string(svg), "out of range")
}

func TestNewIncomeHistogram_InvalidOptions(t *testing.T) {
	_, err := NewIncomeHistogram(nil, 0, HistogramOptions{Min: 0, Max: 10, Bins: 0})
	require.Error(t, err)

	_, err = NewIncomeHistogram(nil, 0, HistogramOptions{Min: 10, Max: 10, Bins: 4})
	require.Error(t, err)
}

func TestHistogramChart_SVG(t *testing.T) {
	h, err := NewIncomeHistogram(referenceRows(), 202500, DefaultHistogramOptions())
	require.NoError(t, err)

	svg, err := h.SVG()
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), IncomeAxisLabel)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$ 202,500.00", FormatCurrency(202500))
	assert.Equal(t, "$ 1,234.56", FormatCurrency(1234.56))
	assert.Equal(t, "$ 0.00", FormatCurrency(0))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "62.0 %", FormatPercentage(62))
	assert.Equal(t, "12.3 %", FormatPercentage(12.3))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "307,511", FormatCount(307511))
}

func TestPadRange(t *testing.T) {
	lo, hi := padRange(5, 5)
	assert.Less(t, lo, 5.0)
	assert.Greater(t, hi, 5.0)

	lo, hi = padRange(1, 2)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 2.0, hi)
}
