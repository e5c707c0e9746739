package model

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// MissingFieldError reports a required key that is absent or null in an
// upstream response.
type MissingFieldError struct {
	Resource string
	Field    string
}

func (e *MissingFieldError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("missing field %q in %s", e.Field, e.Resource)
}

// NewMissingFieldError builds a MissingFieldError for the given resource.
func NewMissingFieldError(resource, field string) *MissingFieldError {
	return &MissingFieldError{Resource: resource, Field: field}
}

var (
	// ErrInvalidProbability is returned when a prediction's probability mapping
	// does not hold exactly one key parseable as a float in [0,1].
	ErrInvalidProbability = eris.New("invalid repay probability")

	// ErrInvalidRepay is returned for a repay flag other than Yes or No.
	ErrInvalidRepay = eris.New("invalid repay flag")
)
