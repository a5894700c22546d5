package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/worker"
)

// RateLimitedEvaluator waits on a per-provider limiter before each call.
type RateLimitedEvaluator struct {
	next    Evaluator
	limiter *worker.Limiter
}

func NewRateLimitedEvaluator(next Evaluator, limiter *worker.Limiter) *RateLimitedEvaluator {
	return &RateLimitedEvaluator{next: next, limiter: limiter}
}

func (e *RateLimitedEvaluator) Name() string { return e.next.Name() }

func (e *RateLimitedEvaluator) IsAvailable(ctx context.Context) bool { return e.next.IsAvailable(ctx) }

func (e *RateLimitedEvaluator) Evaluate(ctx context.Context, req Request) (*evaluation.Evaluation, error) {
	if err := e.limiter.Wait(ctx, e.next.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return e.next.Evaluate(ctx, req)
}
