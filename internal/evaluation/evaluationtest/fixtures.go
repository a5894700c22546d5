// Package evaluationtest provides ready-made evaluations for tests.
package evaluationtest

import "github.com/ppiankov/conceptor/internal/evaluation"

// Clarity returns a valid clarity score.
func Clarity() evaluation.ClarityScore {
	return evaluation.ClarityScore{
		OverallScore:          7,
		ProblemClarity:        8,
		TargetAudienceClarity: 6,
		ScopeDefinition:       7,
		ValidationPotential:   9,
	}
}

// Language returns a language analysis with content in every list.
func Language() evaluation.LanguageAnalysis {
	return evaluation.LanguageAnalysis{
		VagueTerms:          []string{"many people", "often"},
		MissingContext:      []string{"pricing model"},
		AmbiguousStatements: []string{"it is hard to find a plumber"},
	}
}

// Audience returns two target audience segments.
func Audience() []evaluation.TargetAudience {
	return []evaluation.TargetAudience{
		{
			Segment:     "Urban homeowners",
			Description: "Homeowners in large cities with older buildings",
			Challenges:  []string{"slow response times", "opaque pricing"},
			Metrics: evaluation.ValidationMetrics{
				MarketSize:         "12M households",
				Accessibility:      7,
				PainPointIntensity: 8,
				WillingnessToPay:   6,
			},
		},
		{
			Segment:     "Property managers",
			Description: "Small agencies managing rental flats",
			Challenges:  []string{"coordinating many contractors"},
			Metrics: evaluation.ValidationMetrics{
				MarketSize:         "80k agencies",
				Accessibility:      5,
				PainPointIntensity: 9,
				WillingnessToPay:   8,
			},
		},
	}
}

// Assumptions returns an assumptions analysis with two assumptions.
func Assumptions() *evaluation.AssumptionsAnalysis {
	return &evaluation.AssumptionsAnalysis{
		CoreAssumptions: []evaluation.Assumption{
			{Assumption: "Homeowners book repairs online", Testability: 8, RiskLevel: evaluation.RiskLow, ValidationMethod: "landing page test"},
			{Assumption: "Plumbers accept a platform fee", Testability: 5, RiskLevel: evaluation.RiskHigh, ValidationMethod: "interviews"},
		},
		Dependencies: []string{"supply of vetted plumbers"},
	}
}

// Hypotheses returns a hypothesis framework with one hypothesis.
func Hypotheses() *evaluation.HypothesisFramework {
	return &evaluation.HypothesisFramework{
		Format: "We believe [X] will [Y] because [Z]",
		Hypotheses: []evaluation.Hypothesis{
			{Statement: "Homeowners will pay for same-day repair", SuccessCriteria: "10% conversion", Metrics: []string{"conversion rate", "repeat bookings"}},
		},
	}
}

// Plan returns a validation plan with two steps.
func Plan() *evaluation.ValidationPlan {
	return &evaluation.ValidationPlan{
		Steps: []evaluation.ValidationStep{
			{Name: "Interviews", Description: "Talk to 20 homeowners", Method: "qualitative", SuccessCriteria: []string{"15 report the pain"}},
			{Name: "Smoke test", Description: "Landing page with waitlist", Method: "quantitative", SuccessCriteria: []string{"200 signups", "5% CTR"}},
		},
		Timeline:  "6 weeks",
		Resources: []string{"ad budget", "designer"},
	}
}

// WellDefined returns a well-defined evaluation carrying every optional block.
func WellDefined() *evaluation.Evaluation {
	return must(evaluation.NewWellDefined(
		[]string{"Narrow the launch city"},
		[]string{"Partner with a plumbers' association"},
		[]string{"Emergency repairs take days to schedule"},
		"Several marketplaces exist but none focus on same-day service",
		Audience(),
		Clarity(),
		Language(),
		evaluation.WithAssumptionsAnalysis(Assumptions()),
		evaluation.WithHypothesisFramework(Hypotheses()),
		evaluation.WithValidationPlan(Plan()),
	))
}

// RequiresChanges returns a requires_changes evaluation with assumptions.
func RequiresChanges() *evaluation.Evaluation {
	return must(evaluation.NewRequiresChanges(
		[]string{"Define the customer more precisely"},
		[]string{"Interview five customers"},
		[]string{"Unclear who suffers the problem"},
		"",
		Audience()[:1],
		Clarity(),
		Language(),
		evaluation.WithAssumptionsAnalysis(Assumptions()),
	))
}

// NotWellDefined returns a not-well-defined evaluation.
func NotWellDefined() *evaluation.Evaluation {
	return must(evaluation.NewNotWellDefined(
		[]string{"Describe the problem in one sentence", "Name a concrete user"},
		Clarity(),
		Language(),
	))
}

func must(e *evaluation.Evaluation, err error) *evaluation.Evaluation {
	if err != nil {
		panic(err)
	}
	return e
}
