package dashboard

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/charts"
	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
)

// PredictionView is everything shown for one predicted client.
type PredictionView struct {
	Detail     *model.ClientDetail `json:"client"`
	Prediction *model.Prediction   `json:"-"`
	Repay      model.Repay         `json:"repay"`
	Percentage float64             `json:"percentage"`
	Decision   model.Decision      `json:"decision"`
	Message    string              `json:"message"`
	Gauge      charts.Gauge        `json:"-"`
}

// DecisionHook observes every rendered decision.
type DecisionHook func(model.Decision)

// PredictionRenderer fetches a client's record and prediction, applies the
// decision policy and builds the gauge. Nothing it fetches is cached.
type PredictionRenderer struct {
	client scoring.Client
	hook   DecisionHook
}

// NewPredictionRenderer creates a renderer over client. hook may be nil.
func NewPredictionRenderer(client scoring.Client, hook DecisionHook) *PredictionRenderer {
	return &PredictionRenderer{client: client, hook: hook}
}

// Render runs the prediction workflow for id.
func (r *PredictionRenderer) Render(ctx context.Context, id model.ClientID) (*PredictionView, error) {
	log := zap.L().With(zap.String("client_id", id.String()))

	detail, err := r.client.ClientDetail(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: client detail %s", id)
	}

	pred, err := r.client.Prediction(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: prediction %s", id)
	}

	decision, pct, err := model.DecidePrediction(*pred)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: prediction %s", id)
	}

	if r.hook != nil {
		r.hook(decision)
	}
	log.Debug("dashboard: prediction rendered",
		zap.String("decision", decision.String()),
		zap.Float64("percentage", pct),
	)

	return &PredictionView{
		Detail:     detail,
		Prediction: pred,
		Repay:      pred.Repay,
		Percentage: pct,
		Decision:   decision,
		Message:    decision.Message(),
		Gauge:      charts.NewGauge(pct),
	}, nil
}
