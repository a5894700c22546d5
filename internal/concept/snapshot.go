package concept

import (
	"time"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

// Snapshot is the flat, serialisable form of a concept used by repositories.
type Snapshot struct {
	ID               string                 `json:"id"`
	Problem          string                 `json:"problem"`
	Persona          string                 `json:"persona"`
	Region           string                 `json:"region"`
	ProductType      string                 `json:"productType"`
	Stage            string                 `json:"stage"`
	CreatedAt        time.Time              `json:"createdAt"`
	ExpiryPeriodDays int                    `json:"expiryPeriodDays"`
	State            State                  `json:"state"`
	WasEvaluated     bool                   `json:"wasEvaluated"`
	WasAccepted      bool                   `json:"wasAccepted"`
	WasArchived      bool                   `json:"wasArchived"`
	WasAnonymized    bool                   `json:"wasAnonymized"`
	Evaluation       *evaluation.Evaluation `json:"evaluation,omitempty"`
	IdeaID           string                 `json:"ideaId,omitempty"`
}

// Snapshot captures the concept's current data.
func (c *Concept) Snapshot() Snapshot {
	return Snapshot{
		ID:               c.id,
		Problem:          c.problem.value,
		Persona:          c.persona.value,
		Region:           c.region,
		ProductType:      c.productType,
		Stage:            c.stage,
		CreatedAt:        c.createdAt,
		ExpiryPeriodDays: c.expiryPeriodDays,
		State:            c.lifecycle.state,
		WasEvaluated:     c.WasEvaluated(),
		WasAccepted:      c.WasAccepted(),
		WasArchived:      c.WasArchived(),
		WasAnonymized:    c.WasAnonymized(),
		Evaluation:       c.evaluation,
		IdeaID:           c.ideaID,
	}
}

// Restore rebuilds a concept from a snapshot and re-checks the lifecycle
// invariants. createdAt is not compared against the clock here.
func Restore(s Snapshot, clock Clock) (*Concept, error) {
	if clock == nil {
		return nil, &ValidationError{Field: "clock", Reason: "be provided"}
	}
	if s.ID == "" {
		return nil, &ValidationError{Field: "id", Reason: "not be empty"}
	}
	prob, err := NewProblem(s.Problem)
	if err != nil {
		return nil, err
	}
	pers, err := NewPersona(s.Persona)
	if err != nil {
		return nil, err
	}
	if s.ExpiryPeriodDays <= 0 {
		return nil, &ValidationError{Field: "expiryPeriodDays", Reason: "be a positive number of days"}
	}
	if !s.State.Valid() {
		return nil, &ValidationError{Field: "state", Reason: "be a known lifecycle state, got " + string(s.State)}
	}

	var history History
	flags := []struct {
		set bool
		m   Milestone
	}{
		{s.WasEvaluated, MilestoneEvaluated},
		{s.WasAccepted, MilestoneAccepted},
		{s.WasArchived, MilestoneArchived},
		{s.WasAnonymized, MilestoneAnonymized},
	}
	for _, f := range flags {
		if f.set {
			history = history.with(f.m)
		}
	}
	if m, ok := milestoneFor[s.State]; ok && !history.Has(m) {
		return nil, &ValidationError{Field: "history", Reason: "include the current state " + string(s.State)}
	}

	needsEvaluation := history.Has(MilestoneEvaluated) ||
		s.State == StateEvaluated || s.State == StateAccepted || s.State == StateArchived
	if needsEvaluation && s.Evaluation == nil {
		return nil, &ValidationError{Field: "evaluation", Reason: "be present once the concept was evaluated"}
	}
	if history.Has(MilestoneAccepted) && s.IdeaID == "" {
		return nil, &ValidationError{Field: "ideaId", Reason: "be present once the concept was accepted"}
	}

	return &Concept{
		id:               s.ID,
		problem:          prob,
		persona:          pers,
		region:           s.Region,
		productType:      s.ProductType,
		stage:            s.Stage,
		createdAt:        s.CreatedAt,
		expiryPeriodDays: s.ExpiryPeriodDays,
		evaluation:       s.Evaluation,
		ideaID:           s.IdeaID,
		lifecycle:        lifecycle{state: s.State, history: history},
		clock:            clock,
	}, nil
}
