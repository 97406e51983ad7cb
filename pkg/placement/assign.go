package placement

import "github.com/paiv/icfpc2023/pkg/problem"

// Rand is the random source used to assign performers to grid points.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// AssignStats counts how assignments were resolved.
type AssignStats struct {
	// Redraws is the number of performers whose first draw hit a used point.
	Redraws int
	// Scans is the number of performers placed by the linear scan after two
	// colliding draws.
	Scans int
	// Overlaps is the number of performers placed on an already used point
	// because no unused point remained.
	Overlaps int
	// Unplaced is the number of performers left at the origin because the
	// grid was empty.
	Unplaced int
}

// Assign places n performers on distinct grid points.
//
// For each performer an index is drawn uniformly; if that point is taken a
// second index is drawn; if that one is taken too, the first unused point
// in grid order is used. When every point is taken the performer shares the
// second drawn point. With an empty grid every performer stays at the origin.
func Assign(grid []problem.Point, n int, rng Rand) ([]problem.Point, AssignStats) {
	layout := make([]problem.Point, n)
	var st AssignStats
	if len(grid) == 0 {
		st.Unplaced = n
		return layout, st
	}

	seen := make([]bool, len(grid))
	next := 0 // every index below next is used
	for i := range layout {
		j := rng.IntN(len(grid))
		if seen[j] {
			st.Redraws++
			j = rng.IntN(len(grid))
		}
		if seen[j] {
			for next < len(seen) && seen[next] {
				next++
			}
			if next == len(seen) {
				st.Overlaps++
				layout[i] = grid[j]
				continue
			}
			st.Scans++
			j = next
		}
		seen[j] = true
		layout[i] = grid[j]
	}
	return layout, st
}
