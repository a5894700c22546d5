// Package concept holds the Concept aggregate: a submitted problem/persona pair
// that moves through draft, evaluated, accepted and archived, and can be
// anonymized from any of those states.
//
// Every mutating method applies one guarded transition. On error the concept
// is left exactly as it was.
package concept

import (
	"strings"
	"time"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

const day = 24 * time.Hour

// Concept is the aggregate root. Identity is its id.
type Concept struct {
	id               string
	problem          Problem
	persona          Persona
	region           string
	productType      string
	stage            string
	createdAt        time.Time
	expiryPeriodDays int
	evaluation       *evaluation.Evaluation
	ideaID           string
	lifecycle        lifecycle
	clock            Clock
}

// New validates its inputs and returns a draft concept. When createdAt is nil
// the clock's current time is used; a createdAt later than clock.Now() is
// rejected.
func New(
	id string,
	problem string,
	persona string,
	region string,
	productType string,
	stage string,
	expiryPeriodDays int,
	clock Clock,
	createdAt *time.Time,
) (*Concept, error) {
	if clock == nil {
		return nil, &ValidationError{Field: "clock", Reason: "be provided"}
	}
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "not be empty"}
	}

	prob, err := NewProblem(problem)
	if err != nil {
		return nil, err
	}
	pers, err := NewPersona(persona)
	if err != nil {
		return nil, err
	}

	if expiryPeriodDays <= 0 {
		return nil, &ValidationError{Field: "expiryPeriodDays", Reason: "be a positive number of days"}
	}

	now := clock.Now()
	created := now
	if createdAt != nil {
		created = *createdAt
	}
	if created.After(now) {
		return nil, &ValidationError{Field: "createdAt", Reason: "not be in the future"}
	}

	return &Concept{
		id:               id,
		problem:          prob,
		persona:          pers,
		region:           region,
		productType:      productType,
		stage:            stage,
		createdAt:        created,
		expiryPeriodDays: expiryPeriodDays,
		lifecycle:        newLifecycle(),
		clock:            clock,
	}, nil
}

func (c *Concept) ID() string            { return c.id }
func (c *Concept) Problem() Problem      { return c.problem }
func (c *Concept) Persona() Persona      { return c.persona }
func (c *Concept) Region() string        { return c.region }
func (c *Concept) ProductType() string   { return c.productType }
func (c *Concept) Stage() string         { return c.stage }
func (c *Concept) CreatedAt() time.Time  { return c.createdAt }
func (c *Concept) ExpiryPeriodDays() int { return c.expiryPeriodDays }
func (c *Concept) State() State          { return c.lifecycle.state }
func (c *Concept) History() History      { return c.lifecycle.history }

// ExpiresAt is the end of the availability window.
func (c *Concept) ExpiresAt() time.Time {
	return c.createdAt.Add(time.Duration(c.expiryPeriodDays) * day)
}

func (c *Concept) WasEvaluated() bool  { return c.lifecycle.history.Has(MilestoneEvaluated) }
func (c *Concept) WasAccepted() bool   { return c.lifecycle.history.Has(MilestoneAccepted) }
func (c *Concept) WasArchived() bool   { return c.lifecycle.history.Has(MilestoneArchived) }
func (c *Concept) WasAnonymized() bool { return c.lifecycle.history.Has(MilestoneAnonymized) }

// The Is* predicates look at the current state only, not the history.

func (c *Concept) IsDraft() bool      { return c.lifecycle.state == StateDraft }
func (c *Concept) IsEvaluated() bool  { return c.lifecycle.state == StateEvaluated }
func (c *Concept) IsAccepted() bool   { return c.lifecycle.state == StateAccepted }
func (c *Concept) IsArchived() bool   { return c.lifecycle.state == StateArchived }
func (c *Concept) IsAnonymized() bool { return c.lifecycle.state == StateAnonymized }

// IsExpired reports whether more than expiryPeriodDays have elapsed since
// creation. Elapsed time is compared, so time zones do not matter.
func (c *Concept) IsExpired() bool {
	return c.clock.Now().Sub(c.createdAt) > time.Duration(c.expiryPeriodDays)*day
}

// IsAvailable is true while the concept is neither archived nor anonymized
// and has not expired.
func (c *Concept) IsAvailable() bool {
	if c.IsArchived() || c.IsAnonymized() {
		return false
	}
	return !c.IsExpired()
}

// Evaluation returns the attached evaluation or ErrNotEvaluated.
func (c *Concept) Evaluation() (*evaluation.Evaluation, error) {
	if c.evaluation == nil {
		return nil, ErrNotEvaluated
	}
	return c.evaluation, nil
}

// IdeaID returns the id of the idea created on acceptance or ErrNotAccepted.
func (c *Concept) IdeaID() (string, error) {
	if c.ideaID == "" {
		return "", ErrNotAccepted
	}
	return c.ideaID, nil
}

// CheckTransition reports whether moving to `to` would be allowed now,
// without changing anything.
func (c *Concept) CheckTransition(to State) error {
	_, err := c.lifecycle.advance(to)
	return err
}

// Evaluate attaches ev and moves draft to evaluated.
func (c *Concept) Evaluate(ev *evaluation.Evaluation) error {
	next, err := c.lifecycle.advance(StateEvaluated)
	if err != nil {
		return err
	}
	if ev == nil {
		return &ValidationError{Field: "evaluation", Reason: "be provided"}
	}
	c.evaluation = ev
	c.lifecycle = next
	return nil
}

// Accept records the idea id and moves evaluated to accepted. Uniqueness of
// ideaID across concepts is the repository's job.
func (c *Concept) Accept(ideaID string) error {
	next, err := c.lifecycle.advance(StateAccepted)
	if err != nil {
		return err
	}
	if strings.TrimSpace(ideaID) == "" {
		return &ValidationError{Field: "ideaId", Reason: "not be empty"}
	}
	c.ideaID = ideaID
	c.lifecycle = next
	return nil
}

// Archive moves accepted to archived.
func (c *Concept) Archive() error {
	next, err := c.lifecycle.advance(StateArchived)
	if err != nil {
		return err
	}
	c.lifecycle = next
	return nil
}

// Anonymize replaces the content per AnonymizeConcept and moves the concept
// to anonymized. An already anonymized concept is rejected.
func (c *Concept) Anonymize() error {
	if err := c.CheckTransition(StateAnonymized); err != nil {
		return err
	}
	anon, err := AnonymizeConcept(c)
	if err != nil {
		return err
	}
	*c = *anon
	return nil
}
