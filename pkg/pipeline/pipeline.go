// Package pipeline runs the solve → render pipeline with caching.
//
// The CLI and the HTTP service both go through a [Runner], so they agree on
// cache keys, logging and observability events.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Solve(ctx, p, pipeline.Options{Seed: 7, Seeded: true})
//	if err != nil {
//	    return err
//	}
//	artifacts, err := runner.Render(ctx, p, res.Solution, pipeline.RenderOptions{
//	    Formats: []string{"svg"},
//	})
//
// # Caching
//
// A solve is only reproducible when its random source is seeded and the
// optimizer finishes its pass before the deadline. Only such results are
// cached, keyed by the payload hash and the options that influence the
// answer. Rendered artifacts are cached per format.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paiv/icfpc2023/pkg/cache"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
	"github.com/paiv/icfpc2023/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a solve. It supports JSON for API requests.
type Options struct {
	Seed       uint64        `json:"seed,omitempty"`
	Seeded     bool          `json:"seeded,omitempty"` // use Seed; otherwise time-seeded
	GridRadius float64       `json:"grid_radius,omitempty"`
	TimeLimit  time.Duration `json:"time_limit,omitempty"` // 0 keeps the payload's limit
	Refresh    bool          `json:"refresh,omitempty"`

	// MaxGridPoints rejects stages whose grid is larger; 0 uses
	// placement.DefaultMaxGridPoints.
	MaxGridPoints int `json:"max_grid_points,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger              `json:"-"`
	Progress func(placement.Progress) `json:"-"`
	Clock    func() time.Time         `json:"-"`
}

// RenderOptions configures artifact rendering.
type RenderOptions struct {
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Listeners bool     `json:"listeners,omitempty"`
	Title     string   `json:"title,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`
}

// Result contains the outputs of a solve.
type Result struct {
	// RunID identifies this run in logs, headers and the solution store.
	RunID string

	// ProblemHash is the content hash of the encoded payload.
	ProblemHash string

	Solution *problem.Solution
	Stats    placement.Stats

	// CacheHit is set when the answer came from the cache; Stats is then
	// zero apart from Score.
	CacheHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults checks and fills solve options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.GridRadius < 0 {
		return fmt.Errorf("grid radius must not be negative, got %v", o.GridRadius)
	}
	if o.GridRadius == 0 {
		o.GridRadius = placement.DefaultGridRadius
	}
	if o.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %v", o.TimeLimit)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateAndSetDefaults checks and fills render options.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	return nil
}

// SolutionKeyOpts returns the cache key options for a problem whose own
// time limit is payloadLimit seconds.
func (o *Options) SolutionKeyOpts(payloadLimit uint32) cache.SolutionKeyOpts {
	limit := payloadLimit
	if o.TimeLimit > 0 {
		limit = uint32(o.TimeLimit.Round(time.Second) / time.Second)
	}
	return cache.SolutionKeyOpts{
		Seed:       o.Seed,
		GridRadius: o.GridRadius,
		TimeLimit:  limit,
	}
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *RenderOptions) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	scale := 0.0
	if format == render.FormatPNG {
		scale = o.Scale
	}
	return cache.ArtifactKeyOpts{
		Format:    format,
		Listeners: o.Listeners,
		Scale:     scale,
	}
}

// placementOptions translates o into solver options.
func (o *Options) placementOptions() []placement.Option {
	opts := []placement.Option{
		placement.WithGridRadius(o.GridRadius),
		placement.WithLogger(o.Logger),
		placement.WithMaxGridPoints(o.MaxGridPoints),
	}
	if o.Seeded {
		opts = append(opts, placement.WithSeed(o.Seed))
	}
	if o.TimeLimit > 0 {
		opts = append(opts, placement.WithTimeLimit(o.TimeLimit))
	}
	if o.Progress != nil {
		opts = append(opts, placement.WithProgress(o.Progress))
	}
	if o.Clock != nil {
		opts = append(opts, placement.WithClock(o.Clock))
	}
	return opts
}
