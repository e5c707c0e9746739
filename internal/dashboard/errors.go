package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/risk-dashboard/internal/charts"
	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/internal/resilience"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
)

// ErrReferenceUnavailable means the reference table failed to load at startup.
var ErrReferenceUnavailable = eris.New("dashboard: reference table unavailable")

// UserMessage maps an error to the text shown in place of a failed widget.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var missing *model.MissingFieldError
	switch {
	case errors.Is(err, scoring.ErrNotFound):
		return "Client not found."
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "The scoring service is temporarily unavailable. Please try again shortly."
	case errors.Is(err, context.DeadlineExceeded):
		return "The scoring service did not answer in time. Please try again later."
	case errors.Is(err, scoring.ErrUnavailable):
		return "The scoring service is unreachable. Please try again later."
	case errors.As(err, &missing):
		return fmt.Sprintf("The scoring service returned incomplete data (missing %q).", missing.Field)
	case errors.Is(err, scoring.ErrMalformed),
		errors.Is(err, model.ErrInvalidProbability),
		errors.Is(err, model.ErrInvalidRepay):
		return "The scoring service returned an unexpected response."
	case errors.Is(err, ErrReferenceUnavailable):
		return "The reference dataset could not be loaded."
	case errors.Is(err, charts.ErrNoData):
		return "No data available for this chart."
	default:
		return "Something went wrong while rendering this section."
	}
}
