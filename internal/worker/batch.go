package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/conceptor/internal/concept"
)

// ConceptEvaluator evaluates one stored concept by id.
type ConceptEvaluator interface {
	Evaluate(ctx context.Context, id string) (*concept.Concept, error)
}

// EvaluateJob evaluates a single concept.
type EvaluateJob struct {
	ConceptID string
	Evaluator ConceptEvaluator
}

func (j *EvaluateJob) Execute(ctx context.Context) Result {
	c, err := j.Evaluator.Evaluate(ctx, j.ConceptID)
	return &EvaluateResult{
		ConceptID: j.ConceptID,
		Concept:   c,
		Error:     err,
	}
}

// EvaluateResult is the outcome of one EvaluateJob.
type EvaluateResult struct {
	ConceptID string
	Concept   *concept.Concept
	Error     error
}

func (r *EvaluateResult) GetError() error {
	return r.Error
}

// BatchEvaluator evaluates many concepts concurrently.
type BatchEvaluator struct {
	evaluator   ConceptEvaluator
	concurrency int
}

// NewBatchEvaluator creates a new batch evaluator
func NewBatchEvaluator(evaluator ConceptEvaluator, concurrency int) *BatchEvaluator {
	return &BatchEvaluator{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// EvaluateIDs runs one job per id. Results come back in completion order;
// ids never run because ctx was cancelled are reported with its cause.
func (b *BatchEvaluator) EvaluateIDs(ctx context.Context, ids []string) []*EvaluateResult {
	if len(ids) == 0 {
		return []*EvaluateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, id := range ids {
		if !pool.Submit(&EvaluateJob{ConceptID: id, Evaluator: b.evaluator}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*EvaluateResult, 0, len(ids))
	done := make(map[string]bool, len(results))
	for _, r := range results {
		res := r.(*EvaluateResult)
		done[res.ConceptID] = true
		out = append(out, res)
	}
	for _, id := range ids {
		if !done[id] {
			out = append(out, &EvaluateResult{ConceptID: id, Error: context.Cause(ctx)})
		}
	}
	return out
}

// EvaluateFile reads ids from a file and evaluates them concurrently.
func (b *BatchEvaluator) EvaluateFile(ctx context.Context, filePath string) ([]*EvaluateResult, error) {
	ids, err := ReadIDsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}

	return b.EvaluateIDs(ctx, ids), nil
}

// ReadIDsFromFile reads one id per line, skipping blanks, comments and
// duplicates.
func ReadIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			ids = append(ids, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return ids, nil
}
