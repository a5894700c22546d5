package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/conceptor/internal/concept"
)

// mockEvaluator records the ids it was asked to evaluate.
type mockEvaluator struct {
	mu     sync.Mutex
	seen   []string
	failOn map[string]bool
}

func (m *mockEvaluator) Evaluate(ctx context.Context, id string) (*concept.Concept, error) {
	time.Sleep(5 * time.Millisecond)
	m.mu.Lock()
	m.seen = append(m.seen, id)
	m.mu.Unlock()
	if m.failOn[id] {
		return nil, errors.New("evaluation failed")
	}
	return &concept.Concept{}, nil
}

func writeIDs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchEvaluator_EvaluateIDs(t *testing.T) {
	eval := &mockEvaluator{}
	batch := NewBatchEvaluator(eval, 2)

	results := batch.EvaluateIDs(context.Background(), []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.ConceptID, res.Error)
		}
		if res.Concept == nil {
			t.Errorf("expected concept for %s", res.ConceptID)
		}
	}
	if len(eval.seen) != 3 {
		t.Errorf("expected 3 evaluations, got %d", len(eval.seen))
	}
}

func TestBatchEvaluator_ReportsFailures(t *testing.T) {
	eval := &mockEvaluator{failOn: map[string]bool{"bad": true}}
	batch := NewBatchEvaluator(eval, 3)

	results := batch.EvaluateIDs(context.Background(), []string{"ok-1", "bad", "ok-2"})

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
			if res.ConceptID != "bad" {
				t.Errorf("unexpected failure for %s", res.ConceptID)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestBatchEvaluator_Empty(t *testing.T) {
	batch := NewBatchEvaluator(&mockEvaluator{}, 2)
	if got := batch.EvaluateIDs(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected 0 results, got %d", len(got))
	}
}

func TestBatchEvaluator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := NewBatchEvaluator(&mockEvaluator{}, 1)
	results := batch.EvaluateIDs(ctx, []string{"a", "b", "c", "d", "e"})

	if len(results) != 5 {
		t.Fatalf("expected a result per id, got %d", len(results))
	}
	for _, res := range results {
		if res.Error == nil && res.Concept == nil {
			t.Errorf("result for %s has neither concept nor error", res.ConceptID)
		}
	}
}

func TestBatchEvaluator_EvaluateFile(t *testing.T) {
	path := writeIDs(t, "a\nb\n# comment\n\nc\n")

	results, err := NewBatchEvaluator(&mockEvaluator{}, 2).EvaluateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("EvaluateFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	if _, err := NewBatchEvaluator(&mockEvaluator{}, 2).EvaluateFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadIDsFromFile(t *testing.T) {
	path := writeIDs(t, "c-1\n# comment\n  c-2  \n\nc-1\n")

	ids, err := ReadIDsFromFile(path)
	if err != nil {
		t.Fatalf("ReadIDsFromFile failed: %v", err)
	}

	expected := []string{"c-1", "c-2"}
	if len(ids) != len(expected) {
		t.Fatalf("expected %d ids, got %d", len(expected), len(ids))
	}
	for i, id := range ids {
		if id != expected[i] {
			t.Errorf("expected id %s at index %d, got %s", expected[i], i, id)
		}
	}
}

func TestEvaluateResult_GetError(t *testing.T) {
	r1 := &EvaluateResult{ConceptID: "c-1"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("evaluation failed")
	r2 := &EvaluateResult{ConceptID: "c-1", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
