package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Keys whose string leaves are not free text.
const (
	statusKey    = "status"
	riskLevelKey = "riskLevel"
)

// LeafRules maps each kind of leaf in an evaluation. A nil rule leaves that
// kind untouched. Text is called for every element of a string list, but not
// for blank scalar fields, which some statuses require to stay blank.
type LeafRules struct {
	Text  func(string) string
	Score func(Score) Score
	Risk  func(RiskLevel) RiskLevel
}

// Transform rebuilds the evaluation with every leaf passed through rules.
// Arrays keep their length and objects keep their keys; the status tag is
// never rewritten. The result is validated like any other evaluation.
func (e *Evaluation) Transform(rules LeafRules) (*Evaluation, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode evaluation: %w", err)
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode evaluation tree: %w", err)
	}

	mapped, err := json.Marshal(mapLeaves(tree, "", false, rules))
	if err != nil {
		return nil, fmt.Errorf("encode mapped tree: %w", err)
	}
	return Decode(mapped)
}

// inList is true for the direct elements of an array.
func mapLeaves(node any, key string, inList bool, rules LeafRules) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = mapLeaves(child, k, false, rules)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = mapLeaves(child, key, true, rules)
		}
		return out
	case string:
		return mapString(v, key, inList, rules)
	case float64:
		// every number in an evaluation is a 1-10 score
		if rules.Score == nil {
			return v
		}
		return float64(rules.Score(Score(int(v))))
	default:
		return v
	}
}

func mapString(v, key string, inList bool, rules LeafRules) any {
	switch key {
	case statusKey:
		return v
	case riskLevelKey:
		if rules.Risk == nil {
			return v
		}
		return string(rules.Risk(RiskLevel(v)))
	}
	if rules.Text == nil || (!inList && strings.TrimSpace(v) == "") {
		return v
	}
	return rules.Text(v)
}
