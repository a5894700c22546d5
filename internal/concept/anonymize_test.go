package concept_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/conceptor/internal/concept"
	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/evaluation/evaluationtest"
)

func evaluatedConcept(t *testing.T, ev *evaluation.Evaluation) *concept.Concept {
	t.Helper()
	c, err := newDraft(concept.FixedClock{T: jan1})
	require.NoError(t, err)
	require.NoError(t, c.Evaluate(ev))
	return c
}

func TestAnonymizeConcept_IsIdempotent(t *testing.T) {
	c := evaluatedConcept(t, evaluationtest.WellDefined())

	once, err := concept.AnonymizeConcept(c)
	require.NoError(t, err)
	twice, err := concept.AnonymizeConcept(once)
	require.NoError(t, err)

	assert.Same(t, once, twice)
	assert.NotSame(t, c, once)
}

func TestAnonymizeConcept_LeavesInputUntouched(t *testing.T) {
	c := evaluatedConcept(t, evaluationtest.WellDefined())

	_, err := concept.AnonymizeConcept(c)
	require.NoError(t, err)

	assert.True(t, c.IsEvaluated())
	assert.False(t, c.WasAnonymized())
	assert.Equal(t, problem110, c.Problem().String())
}

func TestAnonymizeConcept_PreservesMetadata(t *testing.T) {
	c := evaluatedConcept(t, evaluationtest.WellDefined())
	require.NoError(t, c.Accept("idea-3"))

	anon, err := concept.AnonymizeConcept(c)
	require.NoError(t, err)

	assert.Equal(t, concept.AnonymizedText, anon.Problem().String())
	assert.Equal(t, concept.AnonymizedText, anon.Persona().String())
	assert.Equal(t, c.ID(), anon.ID())
	assert.Equal(t, c.Region(), anon.Region())
	assert.Equal(t, c.ProductType(), anon.ProductType())
	assert.Equal(t, c.Stage(), anon.Stage())
	assert.Equal(t, c.CreatedAt(), anon.CreatedAt())
	assert.Equal(t, c.ExpiryPeriodDays(), anon.ExpiryPeriodDays())

	ideaID, err := anon.IdeaID()
	require.NoError(t, err)
	assert.Equal(t, "idea-3", ideaID)

	assert.True(t, anon.IsAnonymized())
	assert.True(t, anon.WasEvaluated())
	assert.True(t, anon.WasAccepted())
	assert.False(t, anon.WasArchived())
	assert.True(t, anon.WasAnonymized())
}

func TestAnonymizeConcept_DraftWithoutEvaluation(t *testing.T) {
	c, err := newDraft(concept.FixedClock{T: jan1})
	require.NoError(t, err)

	anon, err := concept.AnonymizeConcept(c)
	require.NoError(t, err)

	_, err = anon.Evaluation()
	assert.ErrorIs(t, err, concept.ErrNotEvaluated)
	assert.True(t, anon.IsAnonymized())
}

// leaves flattens a JSON document into path -> leaf value.
func leaves(t *testing.T, ev *evaluation.Evaluation) map[string]any {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	var tree any
	require.NoError(t, json.Unmarshal(data, &tree))

	out := map[string]any{}
	var walk func(path string, n any)
	walk = func(path string, n any) {
		switch v := n.(type) {
		case map[string]any:
			for k, child := range v {
				walk(path+"."+k, child)
			}
		case []any:
			out[path+"#len"] = len(v)
			for i, child := range v {
				walk(path+"["+string(rune('0'+i))+"]", child)
			}
		default:
			out[path] = v
		}
	}
	walk("", tree)
	return out
}

func TestRedaction_PreservesShapeAndMapsLeaves(t *testing.T) {
	fixtures := map[string]*evaluation.Evaluation{
		"well-defined":     evaluationtest.WellDefined(),
		"requires_changes": evaluationtest.RequiresChanges(),
		"not-well-defined": evaluationtest.NotWellDefined(),
	}

	for name, ev := range fixtures {
		t.Run(name, func(t *testing.T) {
			anon, err := concept.AnonymizeConcept(evaluatedConcept(t, ev))
			require.NoError(t, err)
			redacted, err := anon.Evaluation()
			require.NoError(t, err)

			before := leaves(t, ev)
			after := leaves(t, redacted)
			require.Len(t, after, len(before))

			for path, orig := range before {
				got, ok := after[path]
				require.True(t, ok, "missing %s", path)

				switch {
				case path == ".status":
					assert.Equal(t, orig, got)
				case len(path) > 4 && path[len(path)-4:] == "#len":
					assert.Equal(t, orig, got, path)
				case len(path) >= 10 && path[len(path)-10:] == ".riskLevel":
					assert.Contains(t, []any{"medium", "high"}, got, path)
				default:
					switch o := orig.(type) {
					case string:
						if strings.TrimSpace(o) == "" && !strings.HasSuffix(path, "]") {
							assert.Equal(t, "", got, path)
						} else {
							assert.Equal(t, concept.RedactionToken, got, path)
						}
					case float64:
						assert.Equal(t, float64(1), got, path)
					}
				}
			}
		})
	}
}

func TestRedaction_RiskBucketFollowsStatus(t *testing.T) {
	cases := []struct {
		ev   *evaluation.Evaluation
		want evaluation.RiskLevel
	}{
		{evaluationtest.WellDefined(), evaluation.RiskMedium},
		{evaluationtest.RequiresChanges(), evaluation.RiskHigh},
	}
	for _, tc := range cases {
		redacted, err := concept.RedactEvaluation(tc.ev)
		require.NoError(t, err)

		assumptions := redacted.AssumptionsAnalysis()
		require.NotNil(t, assumptions)
		for _, a := range assumptions.CoreAssumptions {
			assert.Equal(t, tc.want, a.RiskLevel, "status %s", tc.ev.Status())
			assert.Equal(t, evaluation.MinScore, a.Testability)
		}
	}
}

func TestRedaction_NotWellDefinedStaysEmpty(t *testing.T) {
	redacted, err := concept.RedactEvaluation(evaluationtest.NotWellDefined())
	require.NoError(t, err)

	assert.Equal(t, evaluation.StatusNotWellDefined, redacted.Status())
	assert.Equal(t, []string{concept.RedactionToken, concept.RedactionToken}, redacted.Suggestions())
	assert.Empty(t, redacted.Recommendations())
	assert.Empty(t, redacted.PainPoints())
	assert.Empty(t, redacted.MarketExistence())
	assert.Empty(t, redacted.TargetAudience())
	assert.Nil(t, redacted.AssumptionsAnalysis())
	assert.Nil(t, redacted.HypothesisFramework())
	assert.Nil(t, redacted.ValidationPlan())
	assert.Equal(t, evaluation.MinScore, redacted.ClarityScore().OverallScore)
}

func TestRedaction_EmptyListElementsAreRedacted(t *testing.T) {
	lang := evaluationtest.Language()
	lang.VagueTerms = []string{""}
	ev, err := evaluation.NewNotWellDefined([]string{"real", ""}, evaluationtest.Clarity(), lang)
	require.NoError(t, err)

	redacted, err := concept.RedactEvaluation(ev)
	require.NoError(t, err)

	assert.Equal(t, []string{concept.RedactionToken, concept.RedactionToken}, redacted.Suggestions())
	assert.Equal(t, []string{concept.RedactionToken}, redacted.LanguageAnalysis().VagueTerms)
	assert.Empty(t, redacted.MarketExistence())
}

func TestConceptAnonymize_MatchesService(t *testing.T) {
	c := evaluatedConcept(t, evaluationtest.RequiresChanges())
	expected, err := concept.AnonymizeConcept(c)
	require.NoError(t, err)

	require.NoError(t, c.Anonymize())
	assert.Equal(t, expected.Snapshot().Problem, c.Snapshot().Problem)
	assert.Equal(t, expected.History(), c.History())

	got, err := c.Evaluation()
	require.NoError(t, err)
	want, err := expected.Evaluation()
	require.NoError(t, err)
	assert.Equal(t, want.Suggestions(), got.Suggestions())
}
