package placement

import "github.com/paiv/icfpc2023/pkg/problem"

// PerformerRadius2 is the squared blocking radius of a performer.
const PerformerRadius2 = 25

// Blocks reports whether a disc centred at c with squared radius r2 blocks
// the segment from performer p to listener l.
//
// The disc blocks when the line through p and l passes strictly within its
// radius and the disc centre is strictly closer to the listener than the
// performer is. The second test stands in for a segment projection bound, so
// a disc behind the listener on the far side never blocks, and ties never
// block.
func Blocks(p, l, c problem.Point, r2 float64) bool {
	dx, dy := l.X-p.X, l.Y-p.Y
	d2 := dx*dx + dy*dy
	return blocks(dx, dy, d2, l, c, r2)
}

func blocks(dx, dy, d2 float64, l, c problem.Point, r2 float64) bool {
	ex, ey := l.X-c.X, l.Y-c.Y
	t := dx*ey - ex*dy
	return t*t/d2 < r2 && ex*ex+ey*ey < d2
}
