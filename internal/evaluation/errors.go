package evaluation

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every construction failure in this package.
var ErrInvalid = errors.New("invalid evaluation")

// ValidationError names the field that violated its rule and, when the rule
// depends on it, the status the evaluation was built with.
type ValidationError struct {
	Field  string
	Status Status
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s must %s for status %s", e.Field, e.Reason, e.Status)
	}
	return fmt.Sprintf("%s must %s", e.Field, e.Reason)
}

// Is lets callers match any validation failure with errors.Is(err, ErrInvalid).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// UnsupportedStatusError is returned for a status outside the three known values.
type UnsupportedStatusError struct {
	Value string
}

func (e *UnsupportedStatusError) Error() string {
	return "Unsupported status: " + e.Value
}

func (e *UnsupportedStatusError) Is(target error) bool {
	return target == ErrInvalid
}
