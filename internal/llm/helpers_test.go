package llm

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/evaluation/evaluationtest"
)

func sampleRequest() Request {
	return Request{
		Problem:     "Homeowners wait days for emergency plumbing repairs.",
		Persona:     "Urban homeowners aged 30 to 55 living in older apartment buildings.",
		Region:      "EU",
		ProductType: "b2c",
		Stage:       "idea",
	}
}

func wellDefinedJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(evaluationtest.WellDefined())
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(data)
}

// MockEvaluator implements Evaluator for decorator tests.
type MockEvaluator struct {
	name      string
	available bool
	result    *evaluation.Evaluation
	err       error
	calls     int32
}

func (m *MockEvaluator) Name() string {
	return m.name
}

func (m *MockEvaluator) Evaluate(ctx context.Context, req Request) (*evaluation.Evaluation, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *MockEvaluator) IsAvailable(ctx context.Context) bool {
	return m.available
}

func (m *MockEvaluator) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}
