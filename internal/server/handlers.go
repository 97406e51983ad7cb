package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/paiv/icfpc2023/pkg/errors"
	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// Response headers of POST /v1/solve.
const (
	HeaderScore = "X-Score"
	HeaderRunID = "X-Run-ID"
	HeaderCache = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSolve reads a raw problem payload and answers with the binary
// solution. Query: seed (fixed seed, enables caching), time_limit (seconds).
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeError(w, err)
		return
	}
	if len(body) == 0 {
		writeError(w, errors.New(errors.ErrCodeMissingInput, "empty request body"))
		return
	}
	p, err := problem.Decode(body)
	if err != nil {
		writeError(w, err)
		return
	}

	opts, err := s.solveOptions(r, p)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))

	res, err := s.runner.Solve(r.Context(), p, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set(HeaderScore, strconv.FormatInt(res.Solution.Score, 10))
	h.Set(HeaderRunID, res.RunID)
	if res.CacheHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(problem.EncodeAnswer(res.Solution))
}

func (s *Server) solveOptions(r *http.Request, p *problem.Problem) (pipeline.Options, error) {
	opts := pipeline.Options{GridRadius: s.gridRadius, MaxGridPoints: s.maxGrid}
	q := r.URL.Query()

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed: %q is not an unsigned integer", v)
		}
		opts.Seed, opts.Seeded = seed, true
	}

	limit := time.Duration(p.TimeLimit) * time.Second
	if v := q.Get("time_limit"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "time_limit: %q is not a positive number of seconds", v)
		}
		limit = time.Duration(secs * float64(time.Second))
		opts.TimeLimit = limit
	}
	if limit == 0 || limit > s.maxTimeLimit {
		opts.TimeLimit = s.maxTimeLimit
	}
	return opts, nil
}

type scoreRequest struct {
	ProblemID   int             `json:"problem_id,omitempty"`
	ScoringMode uint32          `json:"scoring_mode,omitempty"`
	Problem     json.RawMessage `json:"problem"`
	Solution    json.RawMessage `json:"solution"`
}

type scoreResponse struct {
	Score int64 `json:"score"`
}

// handleScore evaluates a contest solution against a contest problem. The
// scoring mode is taken from scoring_mode, else derived from problem_id,
// else plain.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse request"))
		return
	}
	if len(req.Problem) == 0 || len(req.Solution) == 0 {
		writeError(w, errors.New(errors.ErrCodeMissingInput, "problem and solution are required"))
		return
	}

	mode := req.ScoringMode
	if mode == 0 {
		mode = problem.ModePlain
		if req.ProblemID > 0 {
			mode = problem.ModeForProblemID(req.ProblemID, s.cutoff)
		}
	}

	p, err := problem.FromJSON(req.Problem, mode, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	sol, err := problem.ParseSolutionJSON(req.Solution)
	if err != nil {
		writeError(w, err)
		return
	}
	score, err := placement.Evaluate(p, sol)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Score: score})
}
