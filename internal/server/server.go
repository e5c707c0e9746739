// Package server serves the dashboard pages and a small JSON API.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"

	"github.com/sells-group/risk-dashboard/internal/dashboard"
	"github.com/sells-group/risk-dashboard/internal/metrics"
	"github.com/sells-group/risk-dashboard/internal/model"
)

// PageRenderer renders the client prediction page.
type PageRenderer interface {
	Page(ctx context.Context, st dashboard.State) dashboard.Page
}

// Predictor runs the prediction workflow for one client.
type Predictor interface {
	Render(ctx context.Context, id model.ClientID) (*dashboard.PredictionView, error)
}

// Deps are the collaborators the server routes to. Metrics and Health are
// optional.
type Deps struct {
	Dashboard PageRenderer
	Predictor Predictor
	Clients   dashboard.ClientLister
	Metrics   *metrics.Metrics
	// Health adds fields to the /health response.
	Health func() map[string]any
}

// Options tunes the HTTP surface.
type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// Server holds the parsed templates and routes.
type Server struct {
	deps   Deps
	opts   Options
	pages  map[string]*template.Template
	router chi.Router
}

// New parses the embedded templates and builds the router.
func New(deps Deps, opts Options) (*Server, error) {
	if deps.Dashboard == nil || deps.Predictor == nil || deps.Clients == nil {
		return nil, eris.New("server: dashboard, predictor and clients are required")
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{deps: deps, opts: opts, pages: pages}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the handler in an *http.Server listening on opts.Port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.router,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(recoverer)
	r.Use(accessLog(s.deps.Metrics))

	r.Get("/", s.handleHome)
	r.Get("/prediction", s.handlePrediction)
	r.Get("/health", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(corsOptions(s.opts.CORSOrigins)))
		r.Get("/clients", s.handleAPIClients)
		r.Get("/clients/{id}/prediction", s.handleAPIPrediction)
	})
	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           7200,
	}
}
