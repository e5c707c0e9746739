// Package scoring provides a client for the credit-risk scoring service that
// serves client records, predictions and population statistics.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/internal/resilience"
)

// Client defines the scoring service operations used by the dashboard.
type Client interface {
	// ClientIDs lists every client known to the service.
	ClientIDs(ctx context.Context) ([]model.ClientID, error)
	// ClientDetail fetches one client's descriptive record.
	ClientDetail(ctx context.Context, id model.ClientID) (*model.ClientDetail, error)
	// Prediction fetches one client's repayment prediction.
	Prediction(ctx context.Context, id model.ClientID) (*model.Prediction, error)
	// Statistics fetches one population distribution.
	Statistics(ctx context.Context, kind model.StatKind) (*model.StatDistribution, error)
}

// Endpoint labels used in logs, errors and metrics.
const (
	EndpointClients     = "clients"
	EndpointClient      = "client"
	EndpointPrediction  = "prediction"
	EndpointStatsPrefix = "statistics_"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// RequestHook observes every completed call.
type RequestHook func(endpoint, outcome string, elapsed time.Duration)

// Option configures the scoring client.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithTimeout bounds each call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

// WithCircuitBreaker routes every call through cb.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *HTTPClient) {
		c.breaker = cb
	}
}

// WithRequestHook registers a callback invoked after every call.
func WithRequestHook(h RequestHook) Option {
	return func(c *HTTPClient) {
		c.hook = h
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// HTTPClient implements Client over the scoring service's REST API. It never
// retries: a failed call surfaces immediately as an *APIError.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	breaker   *resilience.CircuitBreaker
	hook      RequestHook
	userAgent string
}

// NewClient creates a scoring client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   10 * time.Second,
		userAgent: "risk-dashboard/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues a GET for path and returns the top-level JSON object.
func (c *HTTPClient) Fetch(ctx context.Context, endpoint, path string) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := c.getJSON(ctx, endpoint, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &APIError{Endpoint: endpoint, Path: path, Kind: ErrMalformed, Err: eris.New("null body")}
	}
	return out, nil
}

// ClientIDs implements Client.
func (c *HTTPClient) ClientIDs(ctx context.Context) ([]model.ClientID, error) {
	const path = "/api/clients"
	body, err := c.Fetch(ctx, EndpointClients, path)
	if err != nil {
		return nil, err
	}

	raw, ok := body["clientsId"]
	if !ok || isNull(raw) {
		return nil, &APIError{Endpoint: EndpointClients, Path: path, Kind: ErrMalformed,
			Err: model.NewMissingFieldError("client list", "clientsId")}
	}

	var ids []model.ClientID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, &APIError{Endpoint: EndpointClients, Path: path, Kind: ErrMalformed, Err: eris.Wrap(err, "decode clientsId")}
	}
	return ids, nil
}

// ClientDetail implements Client.
func (c *HTTPClient) ClientDetail(ctx context.Context, id model.ClientID) (*model.ClientDetail, error) {
	var d model.ClientDetail
	if err := c.getJSON(ctx, EndpointClient, "/api/clients/"+url.PathEscape(id.String()), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Prediction implements Client.
func (c *HTTPClient) Prediction(ctx context.Context, id model.ClientID) (*model.Prediction, error) {
	var p model.Prediction
	if err := c.getJSON(ctx, EndpointPrediction, "/api/predictions/clients/"+url.PathEscape(id.String()), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Statistics implements Client.
func (c *HTTPClient) Statistics(ctx context.Context, kind model.StatKind) (*model.StatDistribution, error) {
	if !kind.Valid() {
		return nil, eris.Errorf("scoring: unknown statistic %q", string(kind))
	}

	endpoint := EndpointStatsPrefix + string(kind)
	body, err := c.Fetch(ctx, endpoint, kind.Path())
	if err != nil {
		return nil, err
	}

	repaid, err := decodeBuckets(body, kind.RepaidKey())
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Path: kind.Path(), Kind: ErrMalformed, Err: err}
	}
	notRepaid, err := decodeBuckets(body, kind.NotRepaidKey())
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Path: kind.Path(), Kind: ErrMalformed, Err: err}
	}

	return &model.StatDistribution{Kind: kind, Repaid: repaid, NotRepaid: notRepaid}, nil
}

func decodeBuckets(body map[string]json.RawMessage, key string) (model.BucketMap, error) {
	raw, ok := body[key]
	if !ok || isNull(raw) {
		return nil, model.NewMissingFieldError("statistics", key)
	}

	// Counts may arrive as whole-valued floats such as 3.0.
	var counts map[string]float64
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, eris.Wrapf(err, "decode %s", key)
	}

	out := make(model.BucketMap, len(counts))
	for bucket, n := range counts {
		if n < 0 || n != math.Trunc(n) {
			return nil, eris.Errorf("%s: bucket %q has invalid count %v", key, bucket, n)
		}
		out[bucket] = int(n)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint, path string, v any) error {
	start := time.Now()

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, func(ctx context.Context) error {
			return c.do(ctx, endpoint, path, v)
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			err = &APIError{Endpoint: endpoint, Path: path, Kind: ErrUnavailable, Err: err}
		}
	} else {
		err = c.do(ctx, endpoint, path, v)
	}

	elapsed := time.Since(start)
	outcome := Outcome(err)
	if c.hook != nil {
		c.hook(endpoint, outcome, elapsed)
	}
	if err != nil {
		zap.L().Warn("scoring: request failed",
			zap.String("endpoint", endpoint),
			zap.String("path", path),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return err
	}
	zap.L().Debug("scoring: request complete",
		zap.String("endpoint", endpoint),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func (c *HTTPClient) do(ctx context.Context, endpoint, path string, v any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Path: path, Kind: ErrUnavailable, Err: eris.Wrap(err, "create request")}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Endpoint: endpoint, Path: path, Kind: ErrUnavailable, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &APIError{Endpoint: endpoint, Path: path, StatusCode: resp.StatusCode, Kind: ErrUnavailable, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{Endpoint: endpoint, Path: path, StatusCode: resp.StatusCode, Kind: ErrNotFound}
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return &APIError{Endpoint: endpoint, Path: path, StatusCode: resp.StatusCode, Kind: ErrUnavailable,
			Err: resilience.NewTransientError(eris.Errorf("upstream status %d", resp.StatusCode), resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return &APIError{Endpoint: endpoint, Path: path, StatusCode: resp.StatusCode, Kind: ErrUnavailable,
			Err: eris.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{Endpoint: endpoint, Path: path, StatusCode: resp.StatusCode, Kind: ErrMalformed, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
