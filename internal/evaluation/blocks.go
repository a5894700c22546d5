package evaluation

import "fmt"

// ValidationMetrics rates how reachable and motivated a target segment is.
type ValidationMetrics struct {
	MarketSize         string `json:"marketSize"`
	Accessibility      Score  `json:"accessibility"`
	PainPointIntensity Score  `json:"painPointIntensity"`
	WillingnessToPay   Score  `json:"willingnessToPay"`
}

// Validate checks the three scores.
func (m ValidationMetrics) Validate() error {
	if err := checkScore("validationMetrics.accessibility", m.Accessibility); err != nil {
		return err
	}
	if err := checkScore("validationMetrics.painPointIntensity", m.PainPointIntensity); err != nil {
		return err
	}
	return checkScore("validationMetrics.willingnessToPay", m.WillingnessToPay)
}

// TargetAudience is one customer segment the evaluator identified.
type TargetAudience struct {
	Segment     string            `json:"segment"`
	Description string            `json:"description"`
	Challenges  []string          `json:"challenges"`
	Metrics     ValidationMetrics `json:"validationMetrics"`
}

// NewTargetAudience builds a validated segment.
func NewTargetAudience(segment, description string, challenges []string, metrics ValidationMetrics) (TargetAudience, error) {
	ta := TargetAudience{
		Segment:     segment,
		Description: description,
		Challenges:  cloneStrings(challenges),
		Metrics:     metrics,
	}
	if err := ta.Validate(); err != nil {
		return TargetAudience{}, err
	}
	return ta, nil
}

// Validate checks the nested metrics.
func (t TargetAudience) Validate() error {
	return t.Metrics.Validate()
}

func (t TargetAudience) clone() TargetAudience {
	t.Challenges = cloneStrings(t.Challenges)
	return t
}

// ClarityScore rates the problem statement overall and on four axes.
type ClarityScore struct {
	OverallScore          Score `json:"overallScore"`
	ProblemClarity        Score `json:"problemClarity"`
	TargetAudienceClarity Score `json:"targetAudienceClarity"`
	ScopeDefinition       Score `json:"scopeDefinition"`
	ValidationPotential   Score `json:"validationPotential"`
}

// NewClarityScore builds a validated clarity score.
func NewClarityScore(overall, problem, audience, scope, validation int) (ClarityScore, error) {
	c := ClarityScore{
		OverallScore:          Score(overall),
		ProblemClarity:        Score(problem),
		TargetAudienceClarity: Score(audience),
		ScopeDefinition:       Score(scope),
		ValidationPotential:   Score(validation),
	}
	if err := c.Validate(); err != nil {
		return ClarityScore{}, err
	}
	return c, nil
}

// Validate checks every metric against the 1-10 scale.
func (c ClarityScore) Validate() error {
	fields := []struct {
		name  string
		value Score
	}{
		{"clarityScore.overallScore", c.OverallScore},
		{"clarityScore.problemClarity", c.ProblemClarity},
		{"clarityScore.targetAudienceClarity", c.TargetAudienceClarity},
		{"clarityScore.scopeDefinition", c.ScopeDefinition},
		{"clarityScore.validationPotential", c.ValidationPotential},
	}
	for _, f := range fields {
		if err := checkScore(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// LanguageAnalysis lists wording problems found in the problem statement.
type LanguageAnalysis struct {
	VagueTerms          []string `json:"vagueTerms"`
	MissingContext      []string `json:"missingContext"`
	AmbiguousStatements []string `json:"ambiguousStatements"`
}

func (l LanguageAnalysis) clone() LanguageAnalysis {
	return LanguageAnalysis{
		VagueTerms:          cloneStrings(l.VagueTerms),
		MissingContext:      cloneStrings(l.MissingContext),
		AmbiguousStatements: cloneStrings(l.AmbiguousStatements),
	}
}

// Assumption is one belief the concept depends on.
type Assumption struct {
	Assumption       string    `json:"assumption"`
	Testability      Score     `json:"testability"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	ValidationMethod string    `json:"validationMethod"`
}

// AssumptionsAnalysis groups the core assumptions and their dependencies.
type AssumptionsAnalysis struct {
	CoreAssumptions []Assumption `json:"coreAssumptions"`
	Dependencies    []string     `json:"dependencies"`
}

// Validate checks each assumption's testability score and risk level.
func (a *AssumptionsAnalysis) Validate() error {
	for i, as := range a.CoreAssumptions {
		if err := checkScore(fmt.Sprintf("assumptionsAnalysis.coreAssumptions[%d].testability", i), as.Testability); err != nil {
			return err
		}
		if !as.RiskLevel.Valid() {
			return &ValidationError{
				Field:  fmt.Sprintf("assumptionsAnalysis.coreAssumptions[%d].riskLevel", i),
				Reason: fmt.Sprintf("be one of low, medium, high, got %q", as.RiskLevel),
			}
		}
	}
	return nil
}

func (a *AssumptionsAnalysis) clone() *AssumptionsAnalysis {
	if a == nil {
		return nil
	}
	core := make([]Assumption, len(a.CoreAssumptions))
	copy(core, a.CoreAssumptions)
	return &AssumptionsAnalysis{
		CoreAssumptions: core,
		Dependencies:    cloneStrings(a.Dependencies),
	}
}

// Hypothesis is a falsifiable statement with the signals that would confirm it.
type Hypothesis struct {
	Statement       string   `json:"statement"`
	SuccessCriteria string   `json:"successCriteria"`
	Metrics         []string `json:"metrics"`
}

// HypothesisFramework is the evaluator's suggested set of hypotheses.
type HypothesisFramework struct {
	Format     string       `json:"format"`
	Hypotheses []Hypothesis `json:"hypotheses"`
}

func (h *HypothesisFramework) clone() *HypothesisFramework {
	if h == nil {
		return nil
	}
	hs := make([]Hypothesis, len(h.Hypotheses))
	for i, hyp := range h.Hypotheses {
		hyp.Metrics = cloneStrings(hyp.Metrics)
		hs[i] = hyp
	}
	return &HypothesisFramework{Format: h.Format, Hypotheses: hs}
}

// ValidationStep is one experiment in a validation plan.
type ValidationStep struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Method          string   `json:"method"`
	SuccessCriteria []string `json:"successCriteria"`
}

// ValidationPlan sequences the experiments that would validate the concept.
type ValidationPlan struct {
	Steps     []ValidationStep `json:"steps"`
	Timeline  string           `json:"timeline"`
	Resources []string         `json:"resources"`
}

func (p *ValidationPlan) clone() *ValidationPlan {
	if p == nil {
		return nil
	}
	steps := make([]ValidationStep, len(p.Steps))
	for i, st := range p.Steps {
		st.SuccessCriteria = cloneStrings(st.SuccessCriteria)
		steps[i] = st
	}
	return &ValidationPlan{
		Steps:     steps,
		Timeline:  p.Timeline,
		Resources: cloneStrings(p.Resources),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
