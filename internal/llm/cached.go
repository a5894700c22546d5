package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ppiankov/conceptor/internal/cache"
	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/logging"
)

// CachedEvaluator serves repeated submissions from a cache. Only successful
// evaluations are stored.
type CachedEvaluator struct {
	next  Evaluator
	cache cache.Cache
	ttl   time.Duration
	log   *logging.Logger
}

func NewCachedEvaluator(next Evaluator, c cache.Cache, ttl time.Duration, log *logging.Logger) *CachedEvaluator {
	if log == nil {
		log = logging.NewNop()
	}
	return &CachedEvaluator{next: next, cache: c, ttl: ttl, log: log}
}

func (e *CachedEvaluator) Name() string { return e.next.Name() }

func (e *CachedEvaluator) IsAvailable(ctx context.Context) bool { return e.next.IsAvailable(ctx) }

func (e *CachedEvaluator) Evaluate(ctx context.Context, req Request) (*evaluation.Evaluation, error) {
	key := requestKey(e.next.Name(), req)

	if data, ok := e.cache.Get(key); ok {
		ev, err := evaluation.Decode(data)
		if err == nil {
			e.log.Debug("evaluation cache hit", "provider", e.next.Name())
			return ev, nil
		}
		e.log.Warn("dropping unreadable cache entry", "error", err)
		_ = e.cache.Delete(key)
	}

	ev, err := e.next.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(ev)
	if err == nil {
		err = e.cache.Set(key, data, e.ttl)
	}
	if err != nil {
		e.log.Warn("failed to cache evaluation", "error", err)
	}
	return ev, nil
}

// requestKey normalises whitespace and case so cosmetic edits still hit.
func requestKey(provider string, req Request) string {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return cache.CacheKey(
		provider,
		req.Model,
		norm(req.Problem),
		norm(req.Persona),
		norm(req.Region),
		norm(req.ProductType),
		norm(req.Stage),
	)
}
