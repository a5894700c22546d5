package concept

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid matches every construction or argument validation failure.
	ErrInvalid = errors.New("invalid concept")

	// ErrInvalidTransition matches every rejected lifecycle transition.
	ErrInvalidTransition = errors.New("invalid state transition")

	ErrNotEvaluated = errors.New("Concept has not been evaluated yet")
	ErrNotAccepted  = errors.New("Concept has not been accepted yet")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// TransitionError reports a lifecycle move the state machine does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Invalid state transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
