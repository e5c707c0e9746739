package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Repay is the model's binary repayment verdict.
type Repay string

const (
	RepayYes Repay = "Yes"
	RepayNo  Repay = "No"
)

// Prediction is the scoring service's answer for one client. Probability maps
// the repayment probability, encoded as a string key, to a class label.
type Prediction struct {
	Repay       Repay                      `json:"repay"`
	Probability map[string]json.RawMessage `json:"probability"`
}

type predictionWire struct {
	Repay       *Repay                     `json:"repay"`
	Probability map[string]json.RawMessage `json:"probability"`
}

// UnmarshalJSON requires both keys and a known repay flag.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var w predictionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return eris.Wrap(err, "prediction: decode")
	}
	if w.Repay == nil {
		return NewMissingFieldError("prediction", "repay")
	}
	if w.Probability == nil {
		return NewMissingFieldError("prediction", "probability")
	}
	switch *w.Repay {
	case RepayYes, RepayNo:
	default:
		return eris.Wrapf(ErrInvalidRepay, "prediction: repay %q", string(*w.Repay))
	}
	*p = Prediction{Repay: *w.Repay, Probability: w.Probability}
	return nil
}

// RepayProbability returns the single probability key as a float in [0,1].
func (p Prediction) RepayProbability() (float64, error) {
	if len(p.Probability) != 1 {
		return 0, eris.Wrapf(ErrInvalidProbability, "expected exactly one entry, got %d", len(p.Probability))
	}
	for key := range p.Probability {
		v, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
		if err != nil {
			return 0, eris.Wrapf(ErrInvalidProbability, "key %q is not a number", key)
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return 0, eris.Wrapf(ErrInvalidProbability, "value %v outside [0,1]", v)
		}
		return v, nil
	}
	return 0, ErrInvalidProbability
}

// Percentage rounds the repayment probability to three decimals and scales it
// to 0–100.
func (p Prediction) Percentage() (float64, error) {
	prob, err := p.RepayProbability()
	if err != nil {
		return 0, err
	}
	return ProbabilityToPercentage(prob), nil
}

// ProbabilityToPercentage rounds prob to three decimals, then multiplies by 100.
// The exact binary value is rounded, so 0.1235, stored just below the tie,
// becomes 0.123.
func ProbabilityToPercentage(prob float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(prob, 'f', 3, 64), 64)
	if err != nil {
		return 0
	}
	return rounded * 100
}

// Decision is the three-way outcome shown to the relationship manager.
type Decision int

const (
	DecisionRejected Decision = iota
	DecisionNeedsReview
	DecisionAccepted
)

// ReviewThreshold is the percentage strictly above which a "No" verdict is
// sent for manual review instead of being rejected.
const ReviewThreshold = 50.0

// Decide applies the decision policy. It is a pure function of its inputs.
func Decide(repay Repay, percentage float64) Decision {
	if repay == RepayYes {
		return DecisionAccepted
	}
	if percentage > ReviewThreshold {
		return DecisionNeedsReview
	}
	return DecisionRejected
}

// DecidePrediction derives the percentage and decision for a prediction.
func DecidePrediction(p Prediction) (Decision, float64, error) {
	pct, err := p.Percentage()
	if err != nil {
		return DecisionRejected, 0, err
	}
	return Decide(p.Repay, pct), pct, nil
}

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionNeedsReview:
		return "needs_review"
	case DecisionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Message is the banner text shown above the gauge.
func (d Decision) Message() string {
	switch d {
	case DecisionAccepted:
		return "Based on the client's information, the credit application is accepted!"
	case DecisionNeedsReview:
		return "It is necessary to analyze more in details the client's information to accept the credit"
	default:
		return "Based on the client's information, the credit application is not accepted!"
	}
}

// Level is the banner style: success, warning or error.
func (d Decision) Level() string {
	switch d {
	case DecisionAccepted:
		return "success"
	case DecisionNeedsReview:
		return "warning"
	default:
		return "error"
	}
}

// MarshalText lets decisions serialise as their string form.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
