package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/conceptor/internal/cache"
	"github.com/ppiankov/conceptor/internal/concept"
	"github.com/ppiankov/conceptor/internal/config"
	"github.com/ppiankov/conceptor/internal/llm"
	"github.com/ppiankov/conceptor/internal/logging"
	"github.com/ppiankov/conceptor/internal/service"
	"github.com/ppiankov/conceptor/internal/store"
	"github.com/ppiankov/conceptor/internal/worker"
)

// app is everything one command invocation needs.
type app struct {
	cfg       config.Config
	log       *logging.Logger
	repo      store.Repository
	evaluator llm.Evaluator
	svc       *service.ConceptService
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	clock := concept.SystemClock{}
	repo, err := openRepository(cfg.Store, clock)
	if err != nil {
		return nil, err
	}

	evaluator, err := buildEvaluator(cfg, log)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Store: %s %s\n", cfg.Store.Driver, cfg.Store.Path)
		if evaluator != nil {
			fmt.Fprintf(os.Stderr, "Evaluator: %s/%s\n", evaluator.Name(), cfg.Evaluator.Model)
		}
	}

	return &app{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		evaluator: evaluator,
		svc: service.New(repo, evaluator, service.Options{
			Clock:            clock,
			ExpiryPeriodDays: cfg.Concept.ExpiryPeriodDays,
			Logger:           log,
			Model:            cfg.Evaluator.Model,
		}),
	}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.log.Warn("close store", "error", err)
	}
	a.log.Sync()
}

func (a *app) batch() *worker.BatchEvaluator {
	return worker.NewBatchEvaluator(a.svc, a.cfg.Concurrency.Workers)
}

func openRepository(cfg config.StoreConfig, clock concept.Clock) (store.Repository, error) {
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryRepository(clock), nil
	case "sqlite":
		return store.NewSQLiteRepository(cfg.Path, clock)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

// buildEvaluator wraps the configured provider in the cache and the rate
// limiter. A nil evaluator means evaluation is disabled.
func buildEvaluator(cfg config.Config, log *logging.Logger) (llm.Evaluator, error) {
	base, err := llm.NewEvaluator(cfg.LLM(), log)
	if err != nil || base == nil {
		return nil, err
	}

	var ev llm.Evaluator = llm.NewRateLimitedEvaluator(
		base,
		worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst),
	)
	if cfg.Cache.Enabled {
		c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
		ev = llm.NewCachedEvaluator(ev, c, cfg.Cache.DiskTTL, log)
	}
	return ev, nil
}

func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
