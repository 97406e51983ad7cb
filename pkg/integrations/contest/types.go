package contest

import "encoding/json"

// Submission is a solution as recorded by the contest server.
type Submission struct {
	ID          string          `json:"_id"`
	ProblemID   int             `json:"problem_id"`
	UserID      string          `json:"user_id,omitempty"`
	SubmittedAt string          `json:"submitted_at,omitempty"`
	Score       json.RawMessage `json:"score"`
}

// Result interprets the score field. Scored submissions return their score
// and done; rejected ones return -1 and done; anything else, usually the
// string "Processing", is still pending.
func (s *Submission) Result() (score int64, done bool) {
	var v struct {
		Success *float64 `json:"Success"`
		Failure *string  `json:"Failure"`
	}
	if err := json.Unmarshal(s.Score, &v); err != nil {
		return 0, false
	}
	switch {
	case v.Success != nil:
		return int64(*v.Success), true
	case v.Failure != nil:
		return -1, true
	}
	return 0, false
}

type problemCountResponse struct {
	Count int `json:"number_of_problems"`
}

type problemResponse struct {
	Success *string `json:"Success"`
	Failure *string `json:"Failure"`
}

type submissionRequest struct {
	ProblemID int    `json:"problem_id"`
	Contents  string `json:"contents"`
}

type submissionResponse struct {
	Success *struct {
		Submission Submission `json:"submission"`
	} `json:"Success"`
	Failure *string `json:"Failure"`
}
