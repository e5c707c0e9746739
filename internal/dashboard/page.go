package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// ClientLister provides the selectable client ids.
type ClientLister interface {
	ClientIDs(ctx context.Context) ([]model.ClientID, error)
}

// Page is one render of the client prediction page.
type Page struct {
	State     State
	Phase     Phase
	ClientIDs []model.ClientID

	// ClientsErr, PredictionErr and StatsErr are user-facing messages; empty
	// means the section rendered.
	ClientsErr    string
	Prediction    *PredictionView
	PredictionErr string
	Stats         *StatsView
	StatsErr      string
}

// StatsWarning reports whether the "See stats" warning applies.
func (p Page) StatsWarning() bool {
	return p.State.ShowStats
}

// Dashboard composes the client list, prediction and statistics renderers.
type Dashboard struct {
	clients    ClientLister
	prediction *PredictionRenderer
	stats      *StatisticsRenderer
}

// New creates a dashboard.
func New(clients ClientLister, prediction *PredictionRenderer, stats *StatisticsRenderer) *Dashboard {
	return &Dashboard{clients: clients, prediction: prediction, stats: stats}
}

// Page renders the page for st. Without a selection the first listed client
// is chosen. Each section fails on its own.
func (d *Dashboard) Page(ctx context.Context, st State) Page {
	var p Page

	ids, err := d.clients.ClientIDs(ctx)
	if err != nil {
		zap.L().Warn("dashboard: client list failed", zap.Error(err))
		p.ClientsErr = UserMessage(err)
	}
	p.ClientIDs = ids

	if st.ClientID == "" && len(ids) > 0 {
		st.ClientID = ids[0]
	}
	p.State = st
	p.Phase = st.Phase()

	if !p.Phase.Predicted() {
		return p
	}

	view, err := d.prediction.Render(ctx, st.ClientID)
	if err != nil {
		zap.L().Warn("dashboard: prediction failed",
			zap.String("client_id", st.ClientID.String()),
			zap.Error(err),
		)
		p.PredictionErr = UserMessage(err)
	}
	p.Prediction = view

	if p.Phase != PhaseStatsShown {
		return p
	}
	if view == nil {
		p.StatsErr = p.PredictionErr
		return p
	}
	stats := d.stats.Render(ctx, *view.Detail)
	p.Stats = &stats
	return p
}
