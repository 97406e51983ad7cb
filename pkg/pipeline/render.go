package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/paiv/icfpc2023/pkg/cache"
	"github.com/paiv/icfpc2023/pkg/observability"
	"github.com/paiv/icfpc2023/pkg/problem"
	"github.com/paiv/icfpc2023/pkg/render"
)

// Render generates artifacts for a solved problem in the requested formats.
// The boolean reports whether every artifact came from the cache.
func (r *Runner) Render(ctx context.Context, p *problem.Problem, sol *problem.Solution, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hash := sceneHash(p, sol)
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	hooks := observability.Solve()

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		start := time.Now()
		data, err := render.Render(ctx, p, sol, render.Options{
			Format:    format,
			Scale:     opts.Scale,
			Listeners: opts.Listeners,
			Title:     opts.Title,
		})
		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	r.Logger.Debug("rendered", "formats", opts.Formats, "cached", allCached)
	return artifacts, allCached, nil
}

// sceneHash identifies a problem together with a solution. A nil solution
// renders the bare problem.
func sceneHash(p *problem.Problem, sol *problem.Solution) string {
	data := problem.Encode(p)
	if sol != nil {
		data = append(data, problem.EncodeAnswer(sol)...)
	}
	return cache.Hash(data)
}
