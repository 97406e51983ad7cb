package placement

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paiv/icfpc2023/pkg/errors"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func TestSolveSinglePerformer(t *testing.T) {
	p := newProblem(problem.ModePlain, []uint32{0}, []listener{{5, 10, []int32{10}}})

	sol, st, err := Solve(context.Background(), p, WithRand(&scriptedRand{draws: []int{0}}))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if sol.Placements[0] != pt(5, 5) {
		t.Errorf("placement = %v, want (5, 5)", sol.Placements[0])
	}
	if st.Baseline != 400000 {
		t.Errorf("Baseline = %d, want 400000", st.Baseline)
	}
	if sol.Volumes[0] != 10 {
		t.Errorf("volume = %d, want 10", sol.Volumes[0])
	}
	if sol.Score != 4000000 || st.Score != 4000000 {
		t.Errorf("Score = %d (stats %d), want 4000000", sol.Score, st.Score)
	}
	if st.GridPoints != 3 || st.GridCapacity != 20 {
		t.Errorf("grid = %d/%d, want 3/20", st.GridPoints, st.GridCapacity)
	}
	if len(st.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v", st.Diagnostics)
	}
}

func TestSolveZeroTaste(t *testing.T) {
	p := newProblem(problem.ModePlain, []uint32{0}, []listener{{5, 10, []int32{0}}})

	for draw := range 3 {
		sol, _, err := Solve(context.Background(), p, WithRand(&scriptedRand{draws: []int{draw}}))
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if sol.Score != 0 || sol.Volumes[0] != 1 {
			t.Errorf("draw %d: score = %d, volume = %d, want 0 and 1", draw, sol.Score, sol.Volumes[0])
		}
	}
}

func TestSolveVolumesBinary(t *testing.T) {
	for _, mode := range []uint32{problem.ModePlain, problem.ModeCloseness} {
		p, _ := randomProblem(11, 35, 30, 5, mode)

		sol, st, err := Solve(context.Background(), p, WithSeed(42))
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if len(sol.Volumes) != len(p.Roles) {
			t.Fatalf("len(Volumes) = %d", len(sol.Volumes))
		}
		for k, v := range sol.Volumes {
			if v != 1 && v != 10 {
				t.Errorf("mode %d: volume[%d] = %d", mode, k, v)
			}
		}
		if st.Optimized < st.Baseline {
			t.Errorf("mode %d: optimized %d < baseline %d", mode, st.Optimized, st.Baseline)
		}
	}
}

func TestSolveSeedReproducible(t *testing.T) {
	p, _ := randomProblem(2, 25, 20, 3, problem.ModeCloseness)

	a, _, err := Solve(context.Background(), p, WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Solve(context.Background(), p, WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != b.Score {
		t.Errorf("scores differ: %d vs %d", a.Score, b.Score)
	}
	for k := range a.Placements {
		if a.Placements[k] != b.Placements[k] {
			t.Fatalf("placement %d differs: %v vs %v", k, a.Placements[k], b.Placements[k])
		}
	}
}

func TestSolveDeadline(t *testing.T) {
	p, _ := randomProblem(4, 60, 10, 4, problem.ModePlain)
	p.TimeLimit = 1
	clock := &fakeClock{now: time.Unix(0, 0), step: 100 * time.Millisecond}

	sol, st, err := Solve(context.Background(), p, WithSeed(1), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !st.TimedOut {
		t.Fatal("TimedOut = false, want true")
	}
	if st.Iterations >= len(p.Roles) {
		t.Errorf("Iterations = %d, want fewer than %d", st.Iterations, len(p.Roles))
	}
	if len(sol.Placements) != len(p.Roles) || len(sol.Volumes) != len(p.Roles) {
		t.Error("partial solve must still return a full solution")
	}
}

func TestSolveTimeLimitOverride(t *testing.T) {
	p, _ := randomProblem(4, 30, 10, 4, problem.ModePlain)
	p.TimeLimit = 0
	clock := &fakeClock{now: time.Unix(0, 0), step: time.Second}

	_, st, err := Solve(context.Background(), p, WithSeed(1), WithClock(clock.Now), WithTimeLimit(3*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !st.TimedOut {
		t.Error("TimedOut = false, want true")
	}
}

func TestSolveUnlimited(t *testing.T) {
	p, _ := randomProblem(4, 30, 10, 4, problem.ModePlain)
	clock := &fakeClock{now: time.Unix(0, 0), step: time.Hour}

	var reports []Progress
	_, st, err := Solve(context.Background(), p, WithSeed(1), WithClock(clock.Now),
		WithProgress(func(pr Progress) { reports = append(reports, pr) }))
	if err != nil {
		t.Fatal(err)
	}
	if st.TimedOut || st.Iterations != len(p.Roles) {
		t.Errorf("stats = %+v, want full pass", st)
	}
	if len(reports) != len(p.Roles) {
		t.Fatalf("progress reports = %d, want %d", len(reports), len(p.Roles))
	}
	if last := reports[len(reports)-1]; last.Iteration != len(p.Roles) || last.Musicians != len(p.Roles) {
		t.Errorf("last progress = %+v", last)
	}
}

func TestSolveGridShortfall(t *testing.T) {
	p := newProblem(problem.ModePlain, []uint32{0, 0, 0, 0, 0}, []listener{{5, 50, []int32{10}}})
	var buf bytes.Buffer
	logger := log.New(&buf)

	sol, st, err := Solve(context.Background(), p, WithSeed(3), WithLogger(logger))
	if err != nil {
		t.Fatalf("Solve must not fail on a small grid: %v", err)
	}
	if st.GridPoints != 3 {
		t.Errorf("GridPoints = %d, want 3", st.GridPoints)
	}
	if st.Assign.Overlaps != 2 {
		t.Errorf("Overlaps = %d, want 2", st.Assign.Overlaps)
	}
	if len(st.Diagnostics) == 0 {
		t.Error("Diagnostics empty, want grid warning")
	}
	if !strings.Contains(buf.String(), "grid too small") {
		t.Errorf("log = %q, want grid warning", buf.String())
	}
	if len(sol.Placements) != 5 {
		t.Errorf("len(Placements) = %d, want 5", len(sol.Placements))
	}
}

func TestSolveInvalidProblem(t *testing.T) {
	p := newProblem(problem.ModePlain, []uint32{3}, []listener{{5, 10, []int32{1}}})
	if _, _, err := Solve(context.Background(), p); err == nil {
		t.Error("Solve() with role out of range succeeded")
	}
}

func TestSolveRejectsOversizedStage(t *testing.T) {
	tests := []struct {
		name string
		size uint32
	}{
		{"near u32 max", 4_000_000_000},
		{"large", 100_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProblem(problem.ModePlain, []uint32{0}, []listener{{5, 10, []int32{10}}})
			p.RoomWidth, p.RoomHeight = tt.size, tt.size
			p.StageWidth, p.StageHeight = tt.size, tt.size

			sol, _, err := Solve(context.Background(), p, WithSeed(1))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("Solve() error = %v, want INVALID_INPUT", err)
			}
			if sol != nil {
				t.Errorf("Solve() returned a solution for a rejected stage")
			}
		})
	}
}

func TestSolveMaxGridPoints(t *testing.T) {
	p := newProblem(problem.ModePlain, []uint32{0}, []listener{{5, 10, []int32{10}}})

	if _, _, err := Solve(context.Background(), p, WithSeed(1), WithMaxGridPoints(2)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("3-point grid under a limit of 2: error = %v, want INVALID_INPUT", err)
	}
	if _, _, err := Solve(context.Background(), p, WithSeed(1), WithMaxGridPoints(3)); err != nil {
		t.Errorf("3-point grid under a limit of 3: %v", err)
	}
}
