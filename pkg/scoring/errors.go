package scoring

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/risk-dashboard/internal/resilience"
)

var (
	// ErrNotFound means the scoring service answered 404 for the resource.
	ErrNotFound = eris.New("scoring: resource not found")
	// ErrUnavailable covers transport failures, timeouts, non-404 error
	// statuses and calls rejected by an open circuit.
	ErrUnavailable = eris.New("scoring: service unavailable")
	// ErrMalformed means the body was not the expected JSON shape.
	ErrMalformed = eris.New("scoring: malformed response")
)

// APIError describes a failed call. It matches its Kind sentinel and the
// underlying cause with errors.Is and errors.As.
type APIError struct {
	Endpoint   string
	Path       string
	StatusCode int
	Kind       error
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Endpoint, e.Path)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Outcome is the short label recorded for a call: ok, not_found,
// unavailable, circuit_open or malformed.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
