package placement

import (
	"math"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// disc is a blocking obstacle.
type disc struct {
	c  problem.Point
	r2 float64
}

// Engine scores performers of one problem against a mutable layout.
// It is not safe for concurrent use; every solve owns its own Engine.
type Engine struct {
	p         *problem.Problem
	listeners []problem.Point
	pillars   []disc
	layout    []problem.Point
}

// NewEngine returns an engine over layout. The layout slice is used in
// place; [Engine.Swap] mutates it.
func NewEngine(p *problem.Problem, layout []problem.Point) *Engine {
	e := &Engine{
		p:         p,
		listeners: make([]problem.Point, len(p.Listeners)),
		pillars:   make([]disc, len(p.Pillars)),
		layout:    layout,
	}
	for i, a := range p.Listeners {
		e.listeners[i] = problem.Point{X: float64(a.X), Y: float64(a.Y)}
	}
	for i, c := range p.Pillars {
		r := float64(c.R)
		e.pillars[i] = disc{c: problem.Point{X: float64(c.X), Y: float64(c.Y)}, r2: r * r}
	}
	return e
}

// Layout returns the layout the engine scores.
func (e *Engine) Layout() []problem.Point { return e.layout }

// Swap exchanges the positions of performers k and j.
func (e *Engine) Swap(k, j int) {
	e.layout[k], e.layout[j] = e.layout[j], e.layout[k]
}

// Reaching reports whether sound from performer k reaches listener i, that
// is whether no other performer and no pillar blocks the segment.
func (e *Engine) Reaching(k, i int) bool {
	pos, l := e.layout[k], e.listeners[i]
	dx, dy := l.X-pos.X, l.Y-pos.Y
	return e.reaching(k, l, dx, dy, dx*dx+dy*dy)
}

func (e *Engine) reaching(k int, l problem.Point, dx, dy, d2 float64) bool {
	for z, c := range e.layout {
		if z != k && blocks(dx, dy, d2, l, c, PerformerRadius2) {
			return false
		}
	}
	for _, c := range e.pillars {
		if blocks(dx, dy, d2, l, c.c, c.r2) {
			return false
		}
	}
	return true
}

// sum returns the unweighted listener sum of performer k playing role.
// A listener standing exactly on the performer contributes nothing.
func (e *Engine) sum(k int, role uint32) int64 {
	pos := e.layout[k]
	var s int64
	for i, l := range e.listeners {
		dx, dy := l.X-pos.X, l.Y-pos.Y
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			continue
		}
		taste := e.p.Taste(i, role)
		if taste == 0 {
			continue
		}
		if e.reaching(k, l, dx, dy, d2) {
			s += int64(math.Ceil(1e6 * float64(taste) / d2))
		}
	}
	return s
}

// closeness returns 1 + Σ 1/dist from performer k to every other performer
// whose input role equals role. Coincident performers are skipped.
func (e *Engine) closeness(k int, role uint32) float64 {
	pos := e.layout[k]
	q := 1.0
	for z, r := range e.p.Roles {
		if z == k || r != role {
			continue
		}
		dx, dy := pos.X-e.layout[z].X, pos.Y-e.layout[z].Y
		if d := math.Sqrt(dx*dx + dy*dy); d > 0 {
			q += 1 / d
		}
	}
	return q
}

// ScoreOne returns the score of performer k's position played by role.
// Role need not be k's own role; the optimizer uses that to price swaps.
func (e *Engine) ScoreOne(k int, role uint32) int64 {
	s := e.sum(k, role)
	if e.p.Closeness() {
		return int64(math.Ceil(float64(s) * e.closeness(k, role)))
	}
	return s
}

// Total returns the sum of ScoreOne over every performer at its own role.
func (e *Engine) Total() int64 {
	var total int64
	for k, role := range e.p.Roles {
		total += e.ScoreOne(k, role)
	}
	return total
}
