package dashboard

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/charts"
	"github.com/sells-group/risk-dashboard/internal/model"
)

// StatisticsSource provides the population statistics. Both the scoring
// client and the reference cache satisfy it.
type StatisticsSource interface {
	Statistics(ctx context.Context, kind model.StatKind) (*model.StatDistribution, error)
}

// DensityWidget is one density comparison, or the error that replaced it.
type DensityWidget struct {
	Kind  model.StatKind
	Chart *charts.DensityChart
	Err   error
}

// HistogramWidget is the income histogram, or the error that replaced it.
type HistogramWidget struct {
	Chart *charts.HistogramChart
	Err   error
}

// StatsView holds the four statistics widgets. A failed widget never
// prevents the others from rendering.
type StatsView struct {
	Densities []DensityWidget
	Income    HistogramWidget
}

// Failed counts the widgets that carry an error.
func (v StatsView) Failed() int {
	n := 0
	for _, d := range v.Densities {
		if d.Err != nil {
			n++
		}
	}
	if v.Income.Err != nil {
		n++
	}
	return n
}

// StatisticsRenderer builds the statistics section for a client.
type StatisticsRenderer struct {
	source    StatisticsSource
	table     *model.ReferenceTable
	histogram charts.HistogramOptions
}

// NewStatisticsRenderer creates a renderer. A nil table makes the income
// widget report ErrReferenceUnavailable.
func NewStatisticsRenderer(source StatisticsSource, table *model.ReferenceTable, histogram charts.HistogramOptions) *StatisticsRenderer {
	return &StatisticsRenderer{source: source, table: table, histogram: histogram}
}

// Render fetches the three distributions one after another and bins the
// reference table, marking the client's own values.
func (r *StatisticsRenderer) Render(ctx context.Context, detail model.ClientDetail) StatsView {
	view := StatsView{Densities: make([]DensityWidget, 0, len(model.StatKinds))}

	for _, kind := range model.StatKinds {
		w := DensityWidget{Kind: kind}
		w.Chart, w.Err = r.density(ctx, kind, kind.ClientValue(detail))
		if w.Err != nil {
			zap.L().Warn("dashboard: statistics widget failed",
				zap.String("client_id", detail.ClientID.String()),
				zap.String("kind", string(kind)),
				zap.Error(w.Err),
			)
		}
		view.Densities = append(view.Densities, w)
	}

	view.Income.Chart, view.Income.Err = r.income(detail.TotalIncome)
	if view.Income.Err != nil {
		zap.L().Warn("dashboard: income widget failed",
			zap.String("client_id", detail.ClientID.String()),
			zap.Error(view.Income.Err),
		)
	}
	return view
}

func (r *StatisticsRenderer) density(ctx context.Context, kind model.StatKind, marker float64) (*charts.DensityChart, error) {
	dist, err := r.source.Statistics(ctx, kind)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: statistics %s", kind)
	}
	return charts.NewDensityChart(*dist, marker)
}

func (r *StatisticsRenderer) income(income float64) (*charts.HistogramChart, error) {
	if r.table == nil {
		return nil, ErrReferenceUnavailable
	}
	return charts.NewIncomeHistogram(r.table.Rows, income, r.histogram)
}
