package evaluation

import (
	"encoding/json"
	"fmt"
)

// document is the wire form of an Evaluation.
type document struct {
	Status              Status               `json:"status"`
	Suggestions         []string             `json:"suggestions"`
	Recommendations     []string             `json:"recommendations"`
	PainPoints          []string             `json:"painPoints"`
	MarketExistence     string               `json:"marketExistence"`
	TargetAudience      []TargetAudience     `json:"targetAudience"`
	ClarityScore        ClarityScore         `json:"clarityScore"`
	LanguageAnalysis    LanguageAnalysis     `json:"languageAnalysis"`
	AssumptionsAnalysis *AssumptionsAnalysis `json:"assumptionsAnalysis,omitempty"`
	HypothesisFramework *HypothesisFramework `json:"hypothesisFramework,omitempty"`
	ValidationPlan      *ValidationPlan      `json:"validationPlan,omitempty"`
}

// MarshalJSON encodes the evaluation with camelCase keys.
func (e *Evaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{
		Status:              e.status,
		Suggestions:         e.suggestions,
		Recommendations:     e.recommendations,
		PainPoints:          e.painPoints,
		MarketExistence:     e.marketExistence,
		TargetAudience:      e.targetAudience,
		ClarityScore:        e.clarityScore,
		LanguageAnalysis:    e.languageAnalysis,
		AssumptionsAnalysis: e.assumptions,
		HypothesisFramework: e.hypotheses,
		ValidationPlan:      e.validationPlan,
	})
}

// UnmarshalJSON decodes and re-validates an evaluation.
func (e *Evaluation) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// Decode parses a JSON document and validates it through New.
func Decode(data []byte) (*Evaluation, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	return New(
		doc.Status,
		doc.Suggestions,
		doc.Recommendations,
		doc.PainPoints,
		doc.MarketExistence,
		doc.TargetAudience,
		doc.ClarityScore,
		doc.LanguageAnalysis,
		WithAssumptionsAnalysis(doc.AssumptionsAnalysis),
		WithHypothesisFramework(doc.HypothesisFramework),
		WithValidationPlan(doc.ValidationPlan),
	)
}
