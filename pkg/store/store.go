// Package store keeps the best known solution for every contest problem.
//
// A [Store] holds one [Record] per problem: the solution the solver produced,
// its reported score, a pending contest submission if one is in flight, and
// the score the contest server verified. Two backends are provided:
//
//   - [FileStore]: one directory of plain files, compatible with the layout
//     the team's scripts used during the contest
//   - [MongoStore]: one document per problem, for shared solve farms
//
// The [Next] planner walks the problems directory and picks what to do next:
// solve the problem whose solution is oldest, or check a pending submission.
package store

import (
	"context"
	"math"
	"time"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// DefaultImproveThreshold is the smallest score gain worth keeping a new
// solution for.
const DefaultImproveThreshold = 1_000_000

// Record is the stored state of one problem.
type Record struct {
	ProblemID    int               `json:"problem_id" bson:"_id"`
	RunID        string            `json:"run_id,omitempty" bson:"run_id,omitempty"`
	Score        int64             `json:"score" bson:"score"`
	Solution     *problem.Solution `json:"-" bson:"solution,omitempty"`
	Verified     *int64            `json:"verified,omitempty" bson:"verified,omitempty"`
	SubmissionID string            `json:"submission_id,omitempty" bson:"submission_id,omitempty"`
	SubmittedAt  time.Time         `json:"submitted_at,omitzero" bson:"submitted_at,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at" bson:"updated_at"`
}

// Baseline is the score a new solution has to beat. A verified score lower
// than the reported one wins: the server rejected or rescored the solution.
// Problems without a solution return math.MinInt64.
func (r *Record) Baseline() int64 {
	if r == nil || r.Solution == nil {
		if r != nil && r.Verified != nil {
			return *r.Verified
		}
		return math.MinInt64
	}
	if r.Verified != nil && *r.Verified < r.Score {
		return *r.Verified
	}
	return r.Score
}

// Pending reports whether a submission awaits its verdict.
func (r *Record) Pending() bool {
	return r != nil && r.SubmissionID != ""
}

// Improves reports whether score beats r by at least threshold. Negative
// scores never qualify.
func (r *Record) Improves(score, threshold int64) bool {
	if score < 0 {
		return false
	}
	base := r.Baseline()
	if base == math.MinInt64 {
		return true
	}
	return score-base >= threshold
}

// Store persists problem records. Get returns (nil, nil) for unknown
// problems. Touch on an unknown problem does nothing; SetSubmission and
// SetVerified create the record.
type Store interface {
	Get(ctx context.Context, pid int) (*Record, error)
	Save(ctx context.Context, pid int, sol *problem.Solution, runID string) error
	// Touch marks the solution as recently attempted without replacing it,
	// which sends the problem to the back of the planner queue.
	Touch(ctx context.Context, pid int) error
	SetSubmission(ctx context.Context, pid int, submissionID string) error
	// SetVerified records the contest score and clears the pending
	// submission.
	SetVerified(ctx context.Context, pid int, score int64) error
	List(ctx context.Context) ([]*Record, error)
	Close() error
}
