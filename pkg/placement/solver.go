package placement

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paiv/icfpc2023/pkg/errors"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// Progress is reported after each optimizer outer iteration.
type Progress struct {
	Iteration int           // outer iterations completed
	Musicians int           // total outer iterations in a full pass
	Score     int64         // running optimizer total
	Swaps     int           // accepted swaps so far
	Elapsed   time.Duration // since the solve started
}

// Stats describes a finished solve.
type Stats struct {
	GridPoints   int
	GridCapacity int
	Assign       AssignStats

	Baseline  int64 // total after assignment
	Optimized int64 // optimizer running total
	Score     int64 // final volume-weighted total

	Swaps      int
	Iterations int
	TimedOut   bool
	Canceled   bool

	GenerateTime time.Duration
	OptimizeTime time.Duration
	FinalizeTime time.Duration
	Elapsed      time.Duration

	// Diagnostics lists non-fatal irregularities, such as a grid too small
	// for every performer.
	Diagnostics []string
}

type options struct {
	rng       Rand
	radius    float64
	timeLimit time.Duration
	maxGrid   uint64
	logger    *log.Logger
	progress  func(Progress)
	now       func() time.Time
}

// Option configures [Solve].
type Option func(*options)

// WithRand sets the random source used for assignment.
func WithRand(r Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed seeds a PCG source for reproducible assignment.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithGridRadius overrides the grid radius (default 5).
func WithGridRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.radius = r
		}
	}
}

// WithMaxGridPoints bounds the candidate grid. Stages that need more points
// are rejected before anything is allocated. Zero keeps
// [DefaultMaxGridPoints].
func WithMaxGridPoints(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxGrid = uint64(n)
		}
	}
}

// WithTimeLimit overrides the problem's time limit. Zero keeps the
// problem's own limit.
func WithTimeLimit(d time.Duration) Option {
	return func(o *options) { o.timeLimit = d }
}

// WithLogger sets the logger for diagnostics. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress registers a callback invoked after each optimizer outer
// iteration, on the solving goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) { o.progress = fn }
}

// WithClock replaces time.Now for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Solve computes a placement for p: grid, assignment, baseline, optimizer
// pass and volumes. Cancelling ctx stops the optimizer like an expired
// deadline; the partial layout is still finalized and returned.
func Solve(ctx context.Context, p *problem.Problem, opts ...Option) (*problem.Solution, Stats, error) {
	o := options{
		rng:     globalRand{},
		radius:  DefaultGridRadius,
		maxGrid: DefaultMaxGridPoints,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.timeLimit == 0 {
		o.timeLimit = time.Duration(p.TimeLimit) * time.Second
	}

	var st Stats
	if err := p.Validate(); err != nil {
		return nil, st, err
	}
	if n := GridSize(p.StageWidth, p.StageHeight, o.radius); n > o.maxGrid {
		return nil, st, errors.New(errors.ErrCodeInvalidInput,
			"stage %dx%d needs %d grid points, limit is %d", p.StageWidth, p.StageHeight, n, o.maxGrid)
	}

	start := o.now()
	since := func() time.Duration { return o.now().Sub(start) }

	grid := HexGrid(p, o.radius)
	st.GridPoints, st.GridCapacity = len(grid.Points), grid.Capacity
	if len(grid.Points) < len(p.Roles) {
		o.logger.Warn("grid too small for every musician",
			"capacity", grid.Capacity,
			"points", len(grid.Points),
			"musicians", len(p.Roles))
		st.Diagnostics = append(st.Diagnostics,
			fmt.Sprintf("grid has %d points for %d musicians (capacity %d)", len(grid.Points), len(p.Roles), grid.Capacity))
	}

	layout, ast := Assign(grid.Points, len(p.Roles), o.rng)
	st.Assign = ast
	if ast.Overlaps > 0 || ast.Unplaced > 0 {
		o.logger.Warn("musicians share positions",
			"overlaps", ast.Overlaps,
			"unplaced", ast.Unplaced)
		st.Diagnostics = append(st.Diagnostics,
			fmt.Sprintf("%d musicians overlap, %d unplaced", ast.Overlaps, ast.Unplaced))
	}

	e := NewEngine(p, layout)
	st.Baseline = e.Total()
	st.GenerateTime = since()
	o.logger.Debug("baseline",
		"score", st.Baseline,
		"points", len(grid.Points),
		"redraws", ast.Redraws,
		"scans", ast.Scans)

	var expired func() bool
	if o.timeLimit > 0 {
		expired = func() bool { return since() >= o.timeLimit }
	}
	var progress func(OptimizeResult)
	if o.progress != nil {
		progress = func(r OptimizeResult) {
			o.progress(Progress{
				Iteration: r.Iterations,
				Musicians: len(p.Roles),
				Score:     r.Total,
				Swaps:     r.Swaps,
				Elapsed:   since(),
			})
		}
	}

	optStart := o.now()
	res := Optimize(ctx, e, st.Baseline, expired, progress)
	st.OptimizeTime = o.now().Sub(optStart)
	st.Optimized = res.Total
	st.Swaps = res.Swaps
	st.Iterations = res.Iterations
	st.TimedOut = res.Expired
	st.Canceled = res.Canceled
	if res.Expired {
		o.logger.Info("time limit reached",
			"limit", o.timeLimit,
			"iterations", res.Iterations,
			"musicians", len(p.Roles))
	}

	finStart := o.now()
	score, volumes := Finalize(e)
	st.FinalizeTime = o.now().Sub(finStart)
	st.Score = score
	st.Elapsed = since()

	o.logger.Debug("solved",
		"score", score,
		"optimized", res.Total,
		"swaps", res.Swaps,
		"duration", st.Elapsed)

	return &problem.Solution{
		Score:      score,
		Placements: e.Layout(),
		Volumes:    volumes,
	}, st, nil
}
