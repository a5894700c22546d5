package concept

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	PersonaMinLength = 64
	PersonaMaxLength = 2048
	ProblemMaxLength = 2048
)

// Persona describes who suffers the problem.
type Persona struct {
	value string
}

// NewPersona trims raw and checks it holds 64 to 2048 characters.
func NewPersona(raw string) (Persona, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Persona{}, &ValidationError{Field: "persona", Reason: "not be empty"}
	}
	if err := checkLength("persona", v, PersonaMinLength, PersonaMaxLength); err != nil {
		return Persona{}, err
	}
	return Persona{value: v}, nil
}

func (p Persona) String() string { return p.value }

// Problem is the statement of the problem the concept addresses.
type Problem struct {
	value string
}

// NewProblem trims raw and checks it is non-empty and at most 2048 characters.
func NewProblem(raw string) (Problem, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Problem{}, &ValidationError{Field: "problem", Reason: "not be empty"}
	}
	if err := checkLength("problem", v, 1, ProblemMaxLength); err != nil {
		return Problem{}, err
	}
	return Problem{value: v}, nil
}

func (p Problem) String() string { return p.value }

func checkLength(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("be at least %d characters, got %d", min, n)}
	}
	if n > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("be at most %d characters, got %d", max, n)}
	}
	return nil
}
