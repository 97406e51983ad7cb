package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// FileStore keeps records as files in one directory:
//
//	solution-{pid}.json             contest JSON solution, mtime = UpdatedAt
//	solution-{pid}.run.json         run ID and reported score
//	solution-{pid}.score.txt        verified contest score
//	solution-{pid}.submission.json  pending submission, mtime = SubmittedAt
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFileStore creates a store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "solves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create solutions dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the solutions directory.
func (s *FileStore) Dir() string { return s.dir }

// SolutionPath returns the path of the contest JSON solution for pid.
func (s *FileStore) SolutionPath(pid int) string {
	return s.path(pid, ".json")
}

func (s *FileStore) path(pid int, suffix string) string {
	return filepath.Join(s.dir, "solution-"+strconv.Itoa(pid)+suffix)
}

type runFile struct {
	RunID string `json:"run_id,omitempty"`
	Score int64  `json:"score"`
}

type submissionFile struct {
	ID string `json:"_id"`
}

func (s *FileStore) Get(ctx context.Context, pid int) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(pid)
}

func (s *FileStore) get(pid int) (*Record, error) {
	rec := &Record{ProblemID: pid}
	found := false

	if info, err := os.Stat(s.path(pid, ".json")); err == nil {
		data, err := os.ReadFile(s.path(pid, ".json"))
		if err != nil {
			return nil, fmt.Errorf("read solution %d: %w", pid, err)
		}
		sol, err := problem.ParseSolutionJSON(data)
		if err != nil {
			return nil, fmt.Errorf("solution %d: %w", pid, err)
		}
		rec.Solution = sol
		rec.UpdatedAt = info.ModTime()
		found = true
	}

	haveRun := false
	if data, err := os.ReadFile(s.path(pid, ".run.json")); err == nil {
		var rf runFile
		if err := json.Unmarshal(data, &rf); err == nil {
			haveRun = true
			rec.RunID, rec.Score = rf.RunID, rf.Score
			if rec.Solution != nil {
				rec.Solution.Score = rf.Score
			}
		}
	}

	if data, err := os.ReadFile(s.path(pid, ".score.txt")); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			return nil, fmt.Errorf("score %d: %w", pid, err)
		}
		score := int64(v)
		rec.Verified = &score
		if !haveRun {
			rec.Score = score
		}
		found = true
	}

	if info, err := os.Stat(s.path(pid, ".submission.json")); err == nil {
		data, err := os.ReadFile(s.path(pid, ".submission.json"))
		if err != nil {
			return nil, fmt.Errorf("read submission %d: %w", pid, err)
		}
		var sf submissionFile
		if err := json.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("submission %d: %w", pid, err)
		}
		rec.SubmissionID = sf.ID
		rec.SubmittedAt = info.ModTime()
		found = true
	}

	if !found {
		return nil, nil
	}
	return rec, nil
}

func (s *FileStore) Save(ctx context.Context, pid int, sol *problem.Solution, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}
	if err := writeFile(s.path(pid, ".json"), data); err != nil {
		return err
	}
	meta, _ := json.Marshal(runFile{RunID: runID, Score: sol.Score})
	return writeFile(s.path(pid, ".run.json"), meta)
}

func (s *FileStore) Touch(ctx context.Context, pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := os.Chtimes(s.path(pid, ".json"), now, now)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) SetSubmission(ctx context.Context, pid int, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := json.Marshal(submissionFile{ID: submissionID})
	return writeFile(s.path(pid, ".submission.json"), data)
}

func (s *FileStore) SetVerified(ctx context.Context, pid int, score int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFile(s.path(pid, ".score.txt"), []byte(strconv.FormatInt(score, 10))); err != nil {
		return err
	}
	if err := os.Remove(s.path(pid, ".submission.json")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove submission: %w", err)
	}
	return nil
}

var solutionFileRe = regexp.MustCompile(`^solution-(\d+)\.(?:json|score\.txt|submission\.json)$`)

func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read solutions dir: %w", err)
	}

	var pids []int
	for _, entry := range entries {
		m := solutionFileRe.FindStringSubmatch(entry.Name())
		if m == nil || entry.IsDir() {
			continue
		}
		pid, _ := strconv.Atoi(m[1])
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	pids = slices.Compact(pids)

	records := make([]*Record, 0, len(pids))
	for _, pid := range pids {
		rec, err := s.get(pid)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *FileStore) Close() error { return nil }

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
