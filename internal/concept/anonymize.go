package concept

import (
	"fmt"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

const (
	// AnonymizedText replaces the problem and persona of an anonymized concept.
	AnonymizedText = "This problem has been anonymized and is no longer available for public view."

	// RedactionToken replaces every free-text leaf of an evaluation except
	// blank scalar fields.
	RedactionToken = "[REDACTED]"
)

// riskBuckets maps the original evaluation status to the risk level kept on
// anonymized assumptions.
var riskBuckets = map[evaluation.Status]evaluation.RiskLevel{
	evaluation.StatusRequiresChanges: evaluation.RiskHigh,
	evaluation.StatusWellDefined:     evaluation.RiskMedium,
	evaluation.StatusNotWellDefined:  evaluation.RiskHigh,
}

// AnonymizeConcept returns the anonymized form of c. An already anonymized
// concept is returned as is, so applying it twice yields the same pointer.
//
// The result keeps id, idea id, region, product type, stage, dates and
// history, moves to the anonymized state, and carries a redacted copy of the
// evaluation. c itself is not modified.
func AnonymizeConcept(c *Concept) (*Concept, error) {
	if c.IsAnonymized() {
		return c, nil
	}

	next, err := c.lifecycle.advance(StateAnonymized)
	if err != nil {
		return nil, err
	}

	var redacted *evaluation.Evaluation
	if c.evaluation != nil {
		redacted, err = RedactEvaluation(c.evaluation)
		if err != nil {
			return nil, fmt.Errorf("anonymize concept %s: %w", c.id, err)
		}
	}

	anon := *c
	anon.problem = Problem{value: AnonymizedText}
	anon.persona = Persona{value: AnonymizedText}
	anon.evaluation = redacted
	anon.lifecycle = next
	return &anon, nil
}

// RedactEvaluation replaces every text leaf with RedactionToken,
// collapses every score to the bottom of the scale and buckets risk levels by
// the evaluation's status. Shape and status are preserved.
func RedactEvaluation(ev *evaluation.Evaluation) (*evaluation.Evaluation, error) {
	bucket, ok := riskBuckets[ev.Status()]
	if !ok {
		bucket = evaluation.RiskHigh
	}
	return ev.Transform(evaluation.LeafRules{
		Text:  func(string) string { return RedactionToken },
		Score: func(evaluation.Score) evaluation.Score { return evaluation.MinScore },
		Risk:  func(evaluation.RiskLevel) evaluation.RiskLevel { return bucket },
	})
}
