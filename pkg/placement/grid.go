package placement

import (
	"math"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// DefaultGridRadius is the performer radius used to inset and space the grid.
const DefaultGridRadius = 5.0

// DefaultMaxGridPoints is the largest grid [Solve] builds unless
// [WithMaxGridPoints] says otherwise.
const DefaultMaxGridPoints = 1 << 22

// gridCellArea bounds the grid size: at most one point per 20 square units
// of stage.
const gridCellArea = 20

// gridPrealloc caps the up-front allocation of the point buffer.
const gridPrealloc = 1 << 16

// Grid is the candidate point set for one stage.
type Grid struct {
	Points   []problem.Point
	Capacity int
}

// GridCapacity returns ⌈w·h/20⌉, the most points a grid over the stage may
// hold.
func GridCapacity(w, h uint32) int {
	area := uint64(w) * uint64(h)
	return int((area + gridCellArea - 1) / gridCellArea)
}

// GridSize returns how many points [HexGrid] would produce for a w×h stage,
// capacity included. It never allocates, so it is safe on any header.
func GridSize(w, h uint32, radius float64) uint64 {
	fw, fh := float64(w), float64(h)
	if radius <= 0 || fw < 2*radius || fh < 2*radius {
		return 0
	}
	rows := math.Floor((fh-2*radius)/(radius*math.Sqrt(3))) + 1
	even := math.Floor((fw-2*radius)/(2*radius)) + 1
	odd := 0.0
	if fw >= 3*radius {
		odd = math.Floor((fw-3*radius)/(2*radius)) + 1
	}
	n := math.Ceil(rows/2)*even + math.Floor(rows/2)*odd
	capacity := uint64(GridCapacity(w, h))
	if n >= float64(capacity) {
		return capacity
	}
	return uint64(n)
}

// HexGrid lays out candidate points over the stage of p in triangular
// packing. The stage is inset by radius on every side; rows are radius·√3
// apart and odd rows shift right by radius, so neighbouring points are 2·radius
// apart. Points are in room coordinates and rounded to float32 precision,
// which is how solutions are written out.
//
// Generation stops once Capacity points exist. The grid grows with the stage;
// check [GridSize] first when the header is untrusted.
func HexGrid(p *problem.Problem, radius float64) Grid {
	w, h := float64(p.StageWidth), float64(p.StageHeight)
	ox, oy := float64(p.StageX), float64(p.StageY)
	capacity := GridCapacity(p.StageWidth, p.StageHeight)

	rowStep := radius * math.Sqrt(3)
	colStep := 2 * radius

	size := GridSize(p.StageWidth, p.StageHeight, radius)
	g := Grid{
		Points:   make([]problem.Point, 0, min(size, gridPrealloc)),
		Capacity: capacity,
	}
	if size == 0 {
		return g
	}

	for run := 0; ; run++ {
		y := radius + float64(run)*rowStep
		if y > h-radius {
			break
		}
		for x := radius + float64(run%2)*radius; x <= w-radius; x += colStep {
			if len(g.Points) >= g.Capacity {
				return g
			}
			g.Points = append(g.Points, problem.Point{
				X: float64(float32(x + ox)),
				Y: float64(float32(y + oy)),
			})
		}
	}
	return g
}
