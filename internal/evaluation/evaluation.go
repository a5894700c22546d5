// Package evaluation models the assessment an AI evaluator returns for a concept.
//
// An Evaluation has one schema but three valid shapes, selected by its Status.
// Construction goes through New (or one of the per-status constructors), which
// rejects any field combination the status does not allow, so a value of this
// type is always valid.
package evaluation

import "strings"

// Evaluation is an immutable, status-tagged assessment.
type Evaluation struct {
	status           Status
	suggestions      []string
	recommendations  []string
	painPoints       []string
	marketExistence  string
	targetAudience   []TargetAudience
	clarityScore     ClarityScore
	languageAnalysis LanguageAnalysis
	assumptions      *AssumptionsAnalysis
	hypotheses       *HypothesisFramework
	validationPlan   *ValidationPlan
}

// Option attaches one of the optional sub-blocks.
type Option func(*Evaluation)

// WithAssumptionsAnalysis attaches an assumptions analysis.
func WithAssumptionsAnalysis(a *AssumptionsAnalysis) Option {
	return func(e *Evaluation) { e.assumptions = a.clone() }
}

// WithHypothesisFramework attaches a hypothesis framework.
func WithHypothesisFramework(h *HypothesisFramework) Option {
	return func(e *Evaluation) { e.hypotheses = h.clone() }
}

// WithValidationPlan attaches a validation plan.
func WithValidationPlan(p *ValidationPlan) Option {
	return func(e *Evaluation) { e.validationPlan = p.clone() }
}

// New validates every field against the rules of status and returns the
// evaluation. Input slices are copied.
func New(
	status Status,
	suggestions []string,
	recommendations []string,
	painPoints []string,
	marketExistence string,
	targetAudience []TargetAudience,
	clarity ClarityScore,
	language LanguageAnalysis,
	opts ...Option,
) (*Evaluation, error) {
	st, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	rules := shapes[st]
	checks := []struct {
		field  string
		rule   requirement
		length int
	}{
		{"suggestions", rules.suggestions, len(suggestions)},
		{"recommendations", rules.recommendations, len(recommendations)},
		{"painPoints", rules.painPoints, len(painPoints)},
		{"marketExistence", rules.marketExistence, len(strings.TrimSpace(marketExistence))},
		{"targetAudience", rules.targetAudience, len(targetAudience)},
	}
	for _, c := range checks {
		if err := c.rule.check(c.field, st, c.length); err != nil {
			return nil, err
		}
	}

	if err := clarity.Validate(); err != nil {
		return nil, err
	}

	audience := make([]TargetAudience, len(targetAudience))
	for i, ta := range targetAudience {
		if err := ta.Validate(); err != nil {
			return nil, err
		}
		audience[i] = ta.clone()
	}

	e := &Evaluation{
		status:           st,
		suggestions:      cloneStrings(suggestions),
		recommendations:  cloneStrings(recommendations),
		painPoints:       cloneStrings(painPoints),
		marketExistence:  marketExistence,
		targetAudience:   audience,
		clarityScore:     clarity,
		languageAnalysis: language.clone(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.assumptions != nil {
		if err := e.assumptions.Validate(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// NewWellDefined builds a well-defined evaluation.
func NewWellDefined(
	suggestions, recommendations, painPoints []string,
	marketExistence string,
	targetAudience []TargetAudience,
	clarity ClarityScore,
	language LanguageAnalysis,
	opts ...Option,
) (*Evaluation, error) {
	return New(StatusWellDefined, suggestions, recommendations, painPoints, marketExistence, targetAudience, clarity, language, opts...)
}

// NewRequiresChanges builds an evaluation asking for changes.
func NewRequiresChanges(
	suggestions, recommendations, painPoints []string,
	marketExistence string,
	targetAudience []TargetAudience,
	clarity ClarityScore,
	language LanguageAnalysis,
	opts ...Option,
) (*Evaluation, error) {
	return New(StatusRequiresChanges, suggestions, recommendations, painPoints, marketExistence, targetAudience, clarity, language, opts...)
}

// NewNotWellDefined builds a not-well-defined evaluation. Only suggestions may
// carry content in this shape.
func NewNotWellDefined(suggestions []string, clarity ClarityScore, language LanguageAnalysis, opts ...Option) (*Evaluation, error) {
	return New(StatusNotWellDefined, suggestions, nil, nil, "", nil, clarity, language, opts...)
}

func (e *Evaluation) Status() Status { return e.status }

func (e *Evaluation) Suggestions() []string { return cloneStrings(e.suggestions) }

func (e *Evaluation) Recommendations() []string { return cloneStrings(e.recommendations) }

func (e *Evaluation) PainPoints() []string { return cloneStrings(e.painPoints) }

func (e *Evaluation) MarketExistence() string { return e.marketExistence }

// TargetAudience returns a deep copy of the segments.
func (e *Evaluation) TargetAudience() []TargetAudience {
	out := make([]TargetAudience, len(e.targetAudience))
	for i, ta := range e.targetAudience {
		out[i] = ta.clone()
	}
	return out
}

func (e *Evaluation) ClarityScore() ClarityScore { return e.clarityScore }

func (e *Evaluation) LanguageAnalysis() LanguageAnalysis { return e.languageAnalysis.clone() }

// AssumptionsAnalysis returns nil when the evaluator supplied none.
func (e *Evaluation) AssumptionsAnalysis() *AssumptionsAnalysis { return e.assumptions.clone() }

// HypothesisFramework returns nil when the evaluator supplied none.
func (e *Evaluation) HypothesisFramework() *HypothesisFramework { return e.hypotheses.clone() }

// ValidationPlan returns nil when the evaluator supplied none.
func (e *Evaluation) ValidationPlan() *ValidationPlan { return e.validationPlan.clone() }
