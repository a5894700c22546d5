// Package service runs concept use cases against a repository and an
// evaluator. It is the only layer that logs lifecycle changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/conceptor/internal/concept"
	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/extract"
	"github.com/ppiankov/conceptor/internal/llm"
	"github.com/ppiankov/conceptor/internal/logging"
	"github.com/ppiankov/conceptor/internal/store"
)

// DefaultExpiryPeriodDays applies when neither the submission nor Options set one.
const DefaultExpiryPeriodDays = 30

// ErrEvaluatorDisabled is returned by Evaluate when no provider is configured.
var ErrEvaluatorDisabled = errors.New("no evaluator configured")

// Submission is the input of Submit. It is also the element type of batch
// files, hence the yaml tags.
type Submission struct {
	Problem          string     `yaml:"problem" json:"problem"`
	Persona          string     `yaml:"persona" json:"persona"`
	Region           string     `yaml:"region" json:"region"`
	ProductType      string     `yaml:"product_type" json:"productType"`
	Stage            string     `yaml:"stage" json:"stage"`
	ExpiryPeriodDays int        `yaml:"expiry_period_days,omitempty" json:"expiryPeriodDays,omitempty"`
	CreatedAt        *time.Time `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
}

type Options struct {
	Clock            concept.Clock
	ExpiryPeriodDays int
	Logger           *logging.Logger
	// Model is sent with every evaluation request. Empty means the
	// evaluator's configured default.
	Model string
	// NewID generates concept and idea ids. Defaults to random UUIDs.
	NewID func() string
}

// ConceptService is safe for concurrent use as long as the repository is.
type ConceptService struct {
	repo      store.Repository
	evaluator llm.Evaluator
	clock     concept.Clock
	expiry    int
	model     string
	log       *logging.Logger
	newID     func() string
}

// New builds a service. evaluator may be nil, in which case Evaluate fails
// with ErrEvaluatorDisabled.
func New(repo store.Repository, evaluator llm.Evaluator, opts Options) *ConceptService {
	s := &ConceptService{
		repo:      repo,
		evaluator: evaluator,
		clock:     opts.Clock,
		expiry:    opts.ExpiryPeriodDays,
		model:     opts.Model,
		log:       opts.Logger,
		newID:     opts.NewID,
	}
	if s.clock == nil {
		s.clock = concept.SystemClock{}
	}
	if s.expiry <= 0 {
		s.expiry = DefaultExpiryPeriodDays
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Submit strips markup from the free text, creates a draft and stores it.
func (s *ConceptService) Submit(ctx context.Context, sub Submission) (*concept.Concept, error) {
	problem, err := extract.PlainText(sub.Problem)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	persona, err := extract.PlainText(sub.Persona)
	if err != nil {
		return nil, fmt.Errorf("read persona: %w", err)
	}

	expiry := sub.ExpiryPeriodDays
	if expiry == 0 {
		expiry = s.expiry
	}

	c, err := concept.New(
		s.newID(),
		problem,
		persona,
		sub.Region,
		sub.ProductType,
		sub.Stage,
		expiry,
		s.clock,
		sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, c); err != nil {
		return nil, fmt.Errorf("store concept: %w", err)
	}

	s.log.Info("concept submitted", "concept_id", c.ID(), "state", c.State(), "expires_at", c.ExpiresAt())
	return c, nil
}

// Evaluate asks the evaluator about a draft and attaches the result. The
// evaluator call happens outside the repository update; the transition is
// re-checked when the result is applied.
func (s *ConceptService) Evaluate(ctx context.Context, id string) (*concept.Concept, error) {
	if s.evaluator == nil {
		return nil, ErrEvaluatorDisabled
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.CheckTransition(concept.StateEvaluated); err != nil {
		return nil, err
	}

	start := time.Now()
	ev, err := s.evaluator.Evaluate(ctx, s.requestFor(c))
	if err != nil {
		s.log.Warn("evaluation failed", "concept_id", id, "provider", s.evaluator.Name(), "error", err)
		return nil, fmt.Errorf("evaluate concept %s: %w", id, err)
	}
	s.log.Debug("evaluation received",
		"concept_id", id,
		"provider", s.evaluator.Name(),
		"status", ev.Status(),
		"duration", time.Since(start),
	)

	return s.transition(ctx, id, concept.StateEvaluated, func(c *concept.Concept) error {
		return c.Evaluate(ev)
	})
}

// Attach evaluates a draft with an evaluation obtained elsewhere.
func (s *ConceptService) Attach(ctx context.Context, id string, ev *evaluation.Evaluation) (*concept.Concept, error) {
	return s.transition(ctx, id, concept.StateEvaluated, func(c *concept.Concept) error {
		return c.Evaluate(ev)
	})
}

// Accept records the idea created from an evaluated concept. An empty
// ideaID is replaced by a generated one.
func (s *ConceptService) Accept(ctx context.Context, id, ideaID string) (*concept.Concept, error) {
	if ideaID == "" {
		ideaID = s.newID()
	}
	return s.transition(ctx, id, concept.StateAccepted, func(c *concept.Concept) error {
		return c.Accept(ideaID)
	})
}

func (s *ConceptService) Archive(ctx context.Context, id string) (*concept.Concept, error) {
	return s.transition(ctx, id, concept.StateArchived, func(c *concept.Concept) error {
		return c.Archive()
	})
}

func (s *ConceptService) Anonymize(ctx context.Context, id string) (*concept.Concept, error) {
	return s.transition(ctx, id, concept.StateAnonymized, func(c *concept.Concept) error {
		return c.Anonymize()
	})
}

func (s *ConceptService) Get(ctx context.Context, id string) (*concept.Concept, error) {
	return s.repo.Get(ctx, id)
}

func (s *ConceptService) List(ctx context.Context, filter store.Filter) ([]*concept.Concept, error) {
	return s.repo.List(ctx, filter)
}

var errNotExpired = errors.New("not expired")

// SweepExpired anonymizes every concept past its availability window that
// is not anonymized yet and returns how many were changed.
func (s *ConceptService) SweepExpired(ctx context.Context) (int, error) {
	candidates, err := s.repo.List(ctx, store.Filter{States: []concept.State{
		concept.StateDraft,
		concept.StateEvaluated,
		concept.StateAccepted,
		concept.StateArchived,
	}})
	if err != nil {
		return 0, fmt.Errorf("list concepts: %w", err)
	}

	swept := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		if !c.IsExpired() {
			continue
		}
		_, err := s.repo.Update(ctx, c.ID(), func(c *concept.Concept) error {
			if c.IsAnonymized() || !c.IsExpired() {
				return errNotExpired
			}
			return c.Anonymize()
		})
		switch {
		case errors.Is(err, errNotExpired), errors.Is(err, store.ErrNotFound):
			continue
		case err != nil:
			return swept, fmt.Errorf("anonymize concept %s: %w", c.ID(), err)
		}
		swept++
		s.log.Info("expired concept anonymized", "concept_id", c.ID(), "from", c.State(), "to", concept.StateAnonymized)
	}
	return swept, nil
}

func (s *ConceptService) transition(ctx context.Context, id string, to concept.State, apply store.Mutator) (*concept.Concept, error) {
	var from concept.State
	c, err := s.repo.Update(ctx, id, func(c *concept.Concept) error {
		from = c.State()
		return apply(c)
	})
	if err != nil {
		fields := []interface{}{"concept_id", id, "to", to, "error", err}
		if from != "" {
			fields = append(fields, "from", from)
		}
		s.log.Debug("transition rejected", fields...)
		return nil, err
	}
	s.log.Info("concept transitioned", "concept_id", id, "from", from, "to", to)
	return c, nil
}

func (s *ConceptService) requestFor(c *concept.Concept) llm.Request {
	return llm.Request{
		Model:       s.model,
		Problem:     c.Problem().String(),
		Persona:     c.Persona().String(),
		Region:      c.Region(),
		ProductType: c.ProductType(),
		Stage:       c.Stage(),
	}
}
