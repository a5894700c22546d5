package evaluation

import "fmt"

// Score is a rating on the 1-10 scale used throughout an evaluation.
type Score int

const (
	MinScore Score = 1
	MaxScore Score = 10
)

// NewScore validates v against the 1-10 scale.
func NewScore(v int) (Score, error) {
	s := Score(v)
	if !s.Valid() {
		return 0, &ValidationError{Field: "score", Reason: fmt.Sprintf("be between %d and %d, got %d", MinScore, MaxScore, v)}
	}
	return s, nil
}

// Valid reports whether s lies on the scale.
func (s Score) Valid() bool {
	return s >= MinScore && s <= MaxScore
}

func (s Score) Int() int {
	return int(s)
}

func checkScore(field string, s Score) error {
	if !s.Valid() {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("be between %d and %d, got %d", MinScore, MaxScore, int(s))}
	}
	return nil
}

// RiskLevel is the categorical risk attached to a core assumption.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether r is one of the known buckets.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}
