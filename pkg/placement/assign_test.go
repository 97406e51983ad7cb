package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/paiv/icfpc2023/pkg/problem"
)

func TestAssign(t *testing.T) {
	grid := []problem.Point{pt(0, 0), pt(10, 0), pt(20, 0)}

	tests := []struct {
		name  string
		grid  []problem.Point
		n     int
		draws []int
		want  []problem.Point
		stats AssignStats
	}{
		{
			name:  "first draws",
			grid:  grid,
			n:     3,
			draws: []int{2, 0, 1},
			want:  []problem.Point{grid[2], grid[0], grid[1]},
		},
		{
			name:  "second draw",
			grid:  grid,
			n:     2,
			draws: []int{1, 1, 0},
			want:  []problem.Point{grid[1], grid[0]},
			stats: AssignStats{Redraws: 1},
		},
		{
			name:  "linear scan",
			grid:  grid,
			n:     3,
			draws: []int{1, 1, 1, 0, 1},
			want:  []problem.Point{grid[1], grid[0], grid[2]},
			stats: AssignStats{Redraws: 2, Scans: 2},
		},
		{
			name:  "grid exhausted",
			grid:  grid[:2],
			n:     3,
			draws: []int{0, 1, 1, 0},
			want:  []problem.Point{grid[0], grid[1], grid[0]},
			stats: AssignStats{Redraws: 1, Overlaps: 1},
		},
		{
			name:  "empty grid",
			grid:  nil,
			n:     2,
			want:  []problem.Point{{}, {}},
			stats: AssignStats{Unplaced: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{draws: tt.draws}
			got, st := Assign(tt.grid, tt.n, rng)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("layout[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if st != tt.stats {
				t.Errorf("stats = %+v, want %+v", st, tt.stats)
			}
			if rng.calls != len(tt.draws) {
				t.Errorf("rng called %d times, want %d", rng.calls, len(tt.draws))
			}
		})
	}
}

func TestAssignDistinct(t *testing.T) {
	grid := HexGrid(stage(200, 200, 0, 0), DefaultGridRadius).Points
	rng := rand.New(rand.NewPCG(1, 2))

	layout, st := Assign(grid, len(grid), rng)
	if st.Overlaps != 0 || st.Unplaced != 0 {
		t.Fatalf("stats = %+v", st)
	}
	seen := make(map[problem.Point]bool, len(layout))
	for i, p := range layout {
		if seen[p] {
			t.Fatalf("layout[%d] = %v assigned twice", i, p)
		}
		seen[p] = true
	}
}
