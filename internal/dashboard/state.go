// Package dashboard holds the credit-risk dashboard's page state and the
// renderers that turn scoring data into decisions and charts.
package dashboard

import (
	"net/url"
	"strings"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// Phase is where a page sits in the selection workflow.
type Phase int

const (
	// PhaseNoSelection means no client is chosen yet.
	PhaseNoSelection Phase = iota
	// PhaseSelected means a client is chosen but not yet predicted.
	PhaseSelected
	// PhaseStatsHidden means the prediction is shown without statistics.
	PhaseStatsHidden
	// PhaseStatsShown means the prediction is shown with statistics.
	PhaseStatsShown
)

func (p Phase) String() string {
	switch p {
	case PhaseNoSelection:
		return "no_selection"
	case PhaseSelected:
		return "selected"
	case PhaseStatsHidden:
		return "stats_hidden"
	case PhaseStatsShown:
		return "stats_shown"
	default:
		return "unknown"
	}
}

// Predicted reports whether a prediction has been requested in this phase.
func (p Phase) Predicted() bool {
	return p == PhaseStatsHidden || p == PhaseStatsShown
}

// State is the page-level selection: the chosen client, the "See stats"
// toggle and whether "Predict" was pressed. Methods return new values.
type State struct {
	ClientID  model.ClientID
	ShowStats bool
	Predicted bool
}

// Phase derives the workflow phase.
func (s State) Phase() Phase {
	switch {
	case s.ClientID == "":
		return PhaseNoSelection
	case !s.Predicted:
		return PhaseSelected
	case s.ShowStats:
		return PhaseStatsShown
	default:
		return PhaseStatsHidden
	}
}

// Select chooses a client and discards any earlier prediction. The stats
// toggle is kept.
func (s State) Select(id model.ClientID) State {
	return State{ClientID: id, ShowStats: s.ShowStats}
}

// Predict requests a prediction for the selected client. Without a
// selection it is a no-op.
func (s State) Predict() State {
	if s.ClientID == "" {
		return s
	}
	s.Predicted = true
	return s
}

// SetShowStats flips the "See stats" toggle.
func (s State) SetShowStats(show bool) State {
	s.ShowStats = show
	return s
}

// Query parameter names.
const (
	ParamClientID = "client_id"
	ParamStats    = "stats"
	ParamPredict  = "predict"
)

// StateFromQuery reads a state from request parameters.
func StateFromQuery(q url.Values) State {
	var s State
	if id, err := model.ParseClientID(q.Get(ParamClientID)); err == nil {
		s = s.Select(id)
	}
	s = s.SetShowStats(truthy(q.Get(ParamStats)))
	if truthy(q.Get(ParamPredict)) {
		s = s.Predict()
	}
	return s
}

// Query encodes the state as request parameters.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.ClientID != "" {
		q.Set(ParamClientID, s.ClientID.String())
	}
	if s.ShowStats {
		q.Set(ParamStats, "1")
	}
	if s.Predicted {
		q.Set(ParamPredict, "1")
	}
	return q
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
