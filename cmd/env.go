package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/charts"
	"github.com/sells-group/risk-dashboard/internal/config"
	"github.com/sells-group/risk-dashboard/internal/dashboard"
	"github.com/sells-group/risk-dashboard/internal/fetcher"
	"github.com/sells-group/risk-dashboard/internal/metrics"
	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/internal/refcache"
	"github.com/sells-group/risk-dashboard/internal/reference"
	"github.com/sells-group/risk-dashboard/internal/resilience"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
)

// dashboardEnv holds the scoring client, the reference cache in front of it
// and the metrics every command reports into.
type dashboardEnv struct {
	Client     scoring.Client
	Cache      *refcache.Cache
	Metrics    *metrics.Metrics
	Prediction *dashboard.PredictionRenderer
	Histogram  charts.HistogramOptions
	Reference  config.ReferenceConfig
}

// initEnv builds the scoring client from cfg, with a circuit breaker unless
// circuit.failure_threshold is 0.
func initEnv(c *config.Config) *dashboardEnv {
	m := metrics.New()

	opts := []scoring.Option{
		scoring.WithTimeout(c.API.Timeout()),
		scoring.WithUserAgent(c.API.UserAgent),
		scoring.WithRequestHook(m.ObserveUpstream),
	}
	if c.Circuit.FailureThreshold > 0 {
		cbCfg := resilience.FromCircuitConfig(c.Circuit.FailureThreshold, c.Circuit.ResetTimeoutSecs)
		cbCfg.OnStateChange = m.CircuitStateChanged
		opts = append(opts, scoring.WithCircuitBreaker(resilience.NewCircuitBreaker(cbCfg)))
	}
	client := scoring.NewClient(c.API.BaseURL, opts...)

	env := newEnv(client, m, c.Cache)
	env.Reference = c.Reference
	env.Histogram = charts.HistogramOptions{
		Min:  c.Reference.IncomeMin,
		Max:  c.Reference.IncomeMax,
		Bins: c.Reference.Bins,
	}
	return env
}

// newEnv wires the cache and renderers around client.
func newEnv(client scoring.Client, m *metrics.Metrics, cacheCfg config.CacheConfig) *dashboardEnv {
	return &dashboardEnv{
		Client: client,
		Cache: refcache.New(client,
			refcache.WithTTL(cacheCfg.TTL()),
			refcache.WithLookupHook(m.CacheLookup),
		),
		Metrics:    m,
		Prediction: dashboard.NewPredictionRenderer(client, m.Decision),
		Histogram:  charts.DefaultHistogramOptions(),
	}
}

// loadReference reads the reference table. Failure is logged and returned;
// callers keep running without the income histogram.
func (e *dashboardEnv) loadReference(ctx context.Context) (*model.ReferenceTable, error) {
	table, err := reference.Load(ctx, reference.Options{
		Source: e.Reference.Source,
		Sheet:  e.Reference.Sheet,
		Fetch: fetcher.Options{
			Timeout:    secs(e.Reference.TimeoutSecs),
			MaxRetries: e.Reference.MaxRetries,
		},
	})
	if err != nil {
		zap.L().Warn("reference table unavailable",
			zap.String("source", e.Reference.Source),
			zap.Error(err),
		)
		return nil, eris.Wrap(err, "load reference table")
	}
	e.Metrics.SetReferenceRows(table.Len())
	zap.L().Info("reference table loaded",
		zap.String("source", table.Source),
		zap.Int("rows", table.Len()),
		zap.Int("skipped", table.Skipped),
	)
	return table, nil
}

// newDashboard composes the page renderer over table, which may be nil.
func (e *dashboardEnv) newDashboard(table *model.ReferenceTable) *dashboard.Dashboard {
	stats := dashboard.NewStatisticsRenderer(e.Cache, table, e.Histogram)
	return dashboard.New(e.Cache, e.Prediction, stats)
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
