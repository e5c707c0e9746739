package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/dashboard"
	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/internal/resilience"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageHome, s.layout(r, pageHome))
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	st := dashboard.StateFromQuery(r.URL.Query())
	page := s.deps.Dashboard.Page(r.Context(), st)
	s.render(w, r, pagePrediction, newPredictionData(s.layout(r, pagePrediction), page))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.deps.Health != nil {
		for k, v := range s.deps.Health() {
			body[k] = v
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleAPIClients(w http.ResponseWriter, r *http.Request) {
	ids, err := s.deps.Clients.ClientIDs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clientsId": ids})
}

func (s *Server) handleAPIPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid client id"})
		return
	}
	view, err := s.deps.Predictor.Render(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) layout(r *http.Request, active string) layoutData {
	return layoutData{Title: appTitle, Active: active, RequestID: RequestIDFrom(r.Context())}
}

// render executes the page into a buffer before writing the response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].Execute(&buf, data); err != nil {
		zap.L().Error("server: render template",
			zap.String("page", page),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	var missing *model.MissingFieldError
	switch {
	case errors.Is(err, scoring.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, scoring.ErrUnavailable),
		errors.Is(err, scoring.ErrMalformed),
		errors.As(err, &missing),
		errors.Is(err, model.ErrInvalidProbability),
		errors.Is(err, model.ErrInvalidRepay):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	zap.L().Warn("server: api request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, status, map[string]string{"error": dashboard.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
