package store

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"
)

// TaskKind says what the planner wants done.
type TaskKind int

const (
	// TaskSolve runs the solver on a problem.
	TaskSolve TaskKind = iota
	// TaskCheck polls the contest for a pending submission's verdict.
	TaskCheck
)

func (k TaskKind) String() string {
	if k == TaskCheck {
		return "check"
	}
	return "solve"
}

// ProblemFile is a problem document on disk.
type ProblemFile struct {
	ID   int
	Path string
	Size int64
}

// Task is one unit of planner work.
type Task struct {
	Kind         TaskKind
	Problem      ProblemFile
	SubmissionID string
	// Since is the time the planner ordered by: the submission time for
	// checks, the last solve attempt for solves (zero if never solved).
	Since time.Time
}

var problemFileRe = regexp.MustCompile(`(\d+)\.json$`)

// ProblemIDFromPath extracts the problem ID from a name like
// problem-42.json.
func ProblemIDFromPath(path string) (int, bool) {
	m := problemFileRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	pid, err := strconv.Atoi(m[1])
	return pid, err == nil
}

// ScanProblems lists problem documents in dir: every *.json file whose name
// ends in a number, which is taken as the problem ID.
func ScanProblems(dir string) ([]ProblemFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []ProblemFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pid, ok := ProblemIDFromPath(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, ProblemFile{
			ID:   pid,
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Plan returns every task in execution order. A problem with a pending
// submission yields a check, anything else a solve. Tasks are ordered by
// Since, so never-solved problems come first and recently attempted ones
// last, then by problem size, smaller first, then by problem ID.
func Plan(ctx context.Context, st Store, problems []ProblemFile) ([]Task, error) {
	tasks := make([]Task, 0, len(problems))
	for _, pf := range problems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := st.Get(ctx, pf.ID)
		if err != nil {
			return nil, err
		}
		task := Task{Kind: TaskSolve, Problem: pf}
		switch {
		case rec.Pending():
			task.Kind = TaskCheck
			task.SubmissionID = rec.SubmissionID
			task.Since = rec.SubmittedAt
		case rec != nil && rec.Solution != nil:
			task.Since = rec.UpdatedAt
		}
		tasks = append(tasks, task)
	}

	slices.SortStableFunc(tasks, func(a, b Task) int {
		return cmp.Or(
			a.Since.Compare(b.Since),
			cmp.Compare(a.Problem.Size, b.Problem.Size),
			cmp.Compare(a.Problem.ID, b.Problem.ID),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
	return tasks, nil
}

// Next returns the first task of [Plan], or false when there are no problems.
func Next(ctx context.Context, st Store, problems []ProblemFile) (Task, bool, error) {
	tasks, err := Plan(ctx, st, problems)
	if err != nil || len(tasks) == 0 {
		return Task{}, false, err
	}
	return tasks[0], true, nil
}
