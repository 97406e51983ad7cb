package placement

import (
	"testing"

	"github.com/paiv/icfpc2023/pkg/problem"
)

func TestScoreOneVisible(t *testing.T) {
	tests := []struct {
		name   string
		pos    problem.Point
		people []listener
		want   int64
	}{
		{"adjacent", pt(5, 5), []listener{{5, 10, []int32{10}}}, 400000},
		{"diagonal d2=25", pt(5, 5), []listener{{8, 9, []int32{10}}}, 400000},
		{"rounds up", pt(0, 0), []listener{{0, 3, []int32{1}}}, 111112},
		{"negative taste", pt(5, 5), []listener{{5, 10, []int32{-10}}}, -400000},
		{"small negative rounds to zero", pt(0, 0), []listener{{0, 2000, []int32{-1}}}, 0},
		{"zero taste", pt(0, 0), []listener{{0, 1, []int32{0}}}, 0},
		{"listener on performer", pt(7, 7), []listener{{7, 7, []int32{100}}}, 0},
		{
			"sums listeners",
			pt(0, 0),
			[]listener{{0, 10, []int32{1}}, {10, 0, []int32{2}}},
			10000 + 20000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProblem(problem.ModePlain, []uint32{0}, tt.people)
			e := NewEngine(p, []problem.Point{tt.pos})
			if got := e.ScoreOne(0, 0); got != tt.want {
				t.Errorf("ScoreOne() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreOneBlocked(t *testing.T) {
	people := []listener{{0, 20, []int32{1, 1}}}

	t.Run("by performer", func(t *testing.T) {
		p := newProblem(problem.ModePlain, []uint32{0, 1}, people)
		e := NewEngine(p, []problem.Point{pt(0, 0), pt(0, 10)})

		if got := e.ScoreOne(0, 0); got != 0 {
			t.Errorf("ScoreOne(blocked) = %d, want 0", got)
		}
		if e.Reaching(0, 0) {
			t.Error("Reaching(0, 0) = true, want false")
		}
		if got := e.ScoreOne(1, 1); got != 10000 {
			t.Errorf("ScoreOne(front) = %d, want 10000", got)
		}
		if got := e.Total(); got != 10000 {
			t.Errorf("Total() = %d, want 10000", got)
		}
	})

	t.Run("by pillar", func(t *testing.T) {
		p := newProblem(problem.ModePlain, []uint32{0, 1}, people, problem.Pillar{X: 0, Y: 15, R: 1})
		e := NewEngine(p, []problem.Point{pt(0, 0), pt(0, 10)})
		if got := e.Total(); got != 0 {
			t.Errorf("Total() = %d, want 0", got)
		}
	})

	t.Run("zero taste ignores blocking", func(t *testing.T) {
		p := newProblem(problem.ModePlain, []uint32{0, 1}, []listener{{0, 20, []int32{0, 0}}})
		for _, layout := range [][]problem.Point{
			{pt(0, 0), pt(0, 10)},
			{pt(0, 0), pt(50, 50)},
		} {
			e := NewEngine(p, layout)
			if got := e.ScoreOne(0, 0); got != 0 {
				t.Errorf("ScoreOne() = %d, want 0", got)
			}
		}
	})
}

func TestScoreOneCloseness(t *testing.T) {
	people := []listener{{1, 100, []int32{1000}}}
	layout := []problem.Point{pt(0, 0), pt(2, 0)}

	// 1e9/10001 rounds up to 99991 per performer; the same-role partner two
	// units away gives q = 1.5.
	plain := NewEngine(newProblem(problem.ModePlain, []uint32{0, 0}, people), layout)
	if got := plain.ScoreOne(0, 0); got != 99991 {
		t.Fatalf("plain ScoreOne() = %d, want 99991", got)
	}

	e := NewEngine(newProblem(problem.ModeCloseness, []uint32{0, 0}, people), layout)
	for k := range layout {
		if got := e.ScoreOne(k, 0); got != 149987 {
			t.Errorf("ScoreOne(%d) = %d, want 149987", k, got)
		}
	}
	if got := e.Total(); got != 2*149987 {
		t.Errorf("Total() = %d, want %d", got, 2*149987)
	}
}

func TestScoreOneClosenessUsesEvaluatedRole(t *testing.T) {
	// Performer 0 has role 0, performer 1 role 1. Pricing performer 0's
	// position as role 1 counts performer 1 as a same-role partner.
	people := []listener{{1, 100, []int32{1000, 1000}}}
	p := newProblem(problem.ModeCloseness, []uint32{0, 1}, people)
	e := NewEngine(p, []problem.Point{pt(0, 0), pt(2, 0)})

	if got := e.ScoreOne(0, 0); got != 99991 {
		t.Errorf("ScoreOne(0, own role) = %d, want 99991", got)
	}
	if got := e.ScoreOne(0, 1); got != 149987 {
		t.Errorf("ScoreOne(0, role 1) = %d, want 149987", got)
	}
}

func TestScoreOneCoincidentPartners(t *testing.T) {
	p := newProblem(problem.ModeCloseness, []uint32{0, 0}, []listener{{0, 10, []int32{1}}})
	e := NewEngine(p, []problem.Point{pt(0, 0), pt(0, 0)})
	// the partner sits on the performer; it neither blocks nor adds to q
	if got := e.ScoreOne(0, 0); got != 10000 {
		t.Errorf("ScoreOne() = %d, want 10000", got)
	}
}

func TestScoreOneDeterministic(t *testing.T) {
	p := newProblem(problem.ModeCloseness, []uint32{0, 1, 0},
		[]listener{{3, 40, []int32{7, -3}}, {25, 60, []int32{-2, 9}}},
		problem.Pillar{X: 10, Y: 30, R: 2})
	e := NewEngine(p, []problem.Point{pt(5, 5), pt(15, 5), pt(10, 13.66)})

	first := e.Total()
	for range 5 {
		if got := e.Total(); got != first {
			t.Fatalf("Total() = %d, then %d", first, got)
		}
	}
}
