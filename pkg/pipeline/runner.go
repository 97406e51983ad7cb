package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/paiv/icfpc2023/pkg/cache"
	"github.com/paiv/icfpc2023/pkg/observability"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different problems; each solve owns its own state.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solve runs the solver on p, serving seeded runs from the cache.
func (r *Runner) Solve(ctx context.Context, p *problem.Problem, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	res := &Result{
		RunID:       uuid.NewString(),
		ProblemHash: cache.Hash(problem.Encode(p)),
	}
	logger := opts.Logger.With("run", res.RunID[:8])

	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, int(p.Musicians), int(p.Attendees))
	start := time.Now()

	var key string
	if opts.Seeded {
		key = r.Keyer.SolutionKey(res.ProblemHash, opts.SolutionKeyOpts(p.TimeLimit))
		if !opts.Refresh {
			if sol, ok := r.cachedSolution(ctx, key); ok {
				res.Solution, res.CacheHit = sol, true
				res.Stats.Score = sol.Score
				logger.Info("solution from cache", "score", sol.Score)
				hooks.OnSolveComplete(ctx, observability.SolveEvent{
					Musicians: int(p.Musicians),
					Attendees: int(p.Attendees),
					Score:     sol.Score,
					Cached:    true,
					Duration:  time.Since(start),
				})
				return res, nil
			}
		}
	}

	opts.Logger = logger
	sol, stats, err := placement.Solve(ctx, p, opts.placementOptions()...)
	hooks.OnSolveComplete(ctx, observability.SolveEvent{
		Musicians:  int(p.Musicians),
		Attendees:  int(p.Attendees),
		Score:      stats.Score,
		Baseline:   stats.Baseline,
		Swaps:      stats.Swaps,
		Iterations: stats.Iterations,
		TimedOut:   stats.TimedOut,
		Duration:   time.Since(start),
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	res.Solution, res.Stats = sol, stats

	logger.Info("solved",
		"score", stats.Score,
		"baseline", stats.Baseline,
		"swaps", stats.Swaps,
		"timed_out", stats.TimedOut,
		"duration", stats.Elapsed)

	if key != "" && !stats.TimedOut && !stats.Canceled {
		data := problem.EncodeAnswer(sol)
		if err := r.Cache.Set(ctx, key, data, cache.TTLSolution); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "solution", len(data))
		}
	}
	return res, nil
}

func (r *Runner) cachedSolution(ctx context.Context, key string) (*problem.Solution, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		hooks.OnCacheMiss(ctx, "solution")
		return nil, false
	}
	sol, err := problem.DecodeAnswer(data)
	if err != nil {
		// Fall through to recompute.
		hooks.OnCacheMiss(ctx, "solution")
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	hooks.OnCacheHit(ctx, "solution")
	return sol, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
