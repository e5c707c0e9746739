// Package metrics exposes the dashboard's Prometheus metrics on a dedicated
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/internal/resilience"
)

const namespace = "risk_dashboard"

// Metrics collects the dashboard's Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	circuitState     prometheus.Gauge
	cacheLookups     *prometheus.CounterVec
	decisions        *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	referenceRows    prometheus.Gauge
}

// New creates the metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Scoring service calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		upstreamDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Scoring service call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		circuitState: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_circuit_state",
				Help:      "Scoring service circuit breaker state (0 = closed, 1 = open, 2 = half-open)",
			},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Reference cache lookups by entry and result",
			},
			[]string{"entry", "result"},
		),
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Credit decisions rendered",
			},
			[]string{"decision"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served by route and status code",
			},
			[]string{"route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		referenceRows: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reference_rows",
				Help:      "Rows in the loaded reference table",
			},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpstream records one scoring service call. Its signature matches
// scoring.RequestHook.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// CircuitStateChanged tracks breaker transitions. Its signature matches
// resilience.CircuitBreakerConfig.OnStateChange.
func (m *Metrics) CircuitStateChanged(_, to resilience.CircuitState) {
	m.circuitState.Set(float64(to))
}

// CacheLookup records a reference cache hit or miss. Its signature matches
// refcache.LookupHook.
func (m *Metrics) CacheLookup(entry, result string) {
	m.cacheLookups.WithLabelValues(entry, result).Inc()
}

// Decision counts a rendered decision.
func (m *Metrics) Decision(d model.Decision) {
	m.decisions.WithLabelValues(d.String()).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetReferenceRows records the size of the loaded reference table.
func (m *Metrics) SetReferenceRows(n int) {
	m.referenceRows.Set(float64(n))
}
