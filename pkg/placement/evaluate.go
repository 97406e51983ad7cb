package placement

import (
	"math"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// Evaluate scores sol against p with the solution's own volumes (1 when
// absent). In closeness-weighted mode each performer contributes
// ceil(sum · q · volume); otherwise sum · volume.
func Evaluate(p *problem.Problem, sol *problem.Solution) (int64, error) {
	if err := sol.Check(p); err != nil {
		return 0, err
	}
	layout := make([]problem.Point, len(sol.Placements))
	copy(layout, sol.Placements)
	e := NewEngine(p, layout)

	var total int64
	for k, role := range p.Roles {
		s := e.sum(k, role)
		vol := int64(sol.Volume(k))
		if p.Closeness() {
			total += int64(math.Ceil(float64(s) * e.closeness(k, role) * float64(vol)))
		} else {
			total += s * vol
		}
	}
	return total, nil
}
