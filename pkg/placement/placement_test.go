package placement

import (
	"github.com/paiv/icfpc2023/pkg/problem"
)

// scriptedRand replays draws in order, reduced modulo n.
type scriptedRand struct {
	draws []int
	calls int
}

func (s *scriptedRand) IntN(n int) int {
	v := s.draws[s.calls] % n
	s.calls++
	return v
}

// listener is a test shorthand for a listener with its taste row.
type listener struct {
	x, y   int32
	tastes []int32
}

// newProblem builds a problem on a 1000×1000 room with a stage in the
// corner. Instrument count is taken from the first taste row.
func newProblem(mode uint32, roles []uint32, people []listener, pillars ...problem.Pillar) *problem.Problem {
	p := &problem.Problem{
		Header: problem.Header{
			RoomWidth:   1000,
			RoomHeight:  1000,
			StageWidth:  20,
			StageHeight: 20,
			ScoringMode: mode,
		},
		Roles:   roles,
		Pillars: pillars,
	}
	if p.Pillars == nil {
		p.Pillars = []problem.Pillar{}
	}
	for _, l := range people {
		p.Listeners = append(p.Listeners, problem.Listener{X: l.x, Y: l.y})
		p.Tastes = append(p.Tastes, l.tastes...)
	}
	if len(people) > 0 {
		p.Instruments = uint32(len(people[0].tastes))
	}
	p.Musicians = uint32(len(p.Roles))
	p.Attendees = uint32(len(p.Listeners))
	p.PillarCount = uint32(len(p.Pillars))
	return p
}

func pt(x, y float64) problem.Point { return problem.Point{X: x, Y: y} }
