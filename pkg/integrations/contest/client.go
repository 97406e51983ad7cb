package contest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/paiv/icfpc2023/pkg/cache"
	"github.com/paiv/icfpc2023/pkg/errors"
	"github.com/paiv/icfpc2023/pkg/httputil"
	"github.com/paiv/icfpc2023/pkg/integrations"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// Default endpoints.
const (
	DefaultAPIURL = "https://api.icfpcontest.com"
	DefaultCDNURL = "https://cdn.icfpcontest.com"
)

// Client talks to the contest API. Problem documents are cached; problem
// count and submissions never are.
type Client struct {
	*integrations.Client
	apiURL string
	cdnURL string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the API base URL.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithCDNURL overrides the CDN base URL.
func WithCDNURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.cdnURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client, mostly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.SetHTTPClient(h) }
}

// WithBackoff replaces the GET retry schedule.
func WithBackoff(b httputil.Backoff) Option {
	return func(c *Client) { c.SetBackoff(b) }
}

// NewClient creates a contest client. headers usually come from
// [LoadCredentials].
func NewClient(backend cache.Cache, headers map[string]string, opts ...Option) *Client {
	c := &Client{
		Client: integrations.NewClient(backend, "contest", cache.TTLProblem, headers),
		apiURL: DefaultAPIURL,
		cdnURL: DefaultCDNURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProblemCount returns the number of published problems.
func (c *Client) ProblemCount(ctx context.Context) (int, error) {
	var resp problemCountResponse
	if err := c.Get(ctx, c.apiURL+"/problems", &resp); err != nil {
		return 0, fmt.Errorf("problem count: %w", err)
	}
	return resp.Count, nil
}

// Problem fetches a problem document from the API. The API wraps the
// document in a JSON string; the unwrapped document is returned.
func (c *Client) Problem(ctx context.Context, pid int, refresh bool) ([]byte, error) {
	if err := errors.ValidateProblemID(pid); err != nil {
		return nil, err
	}
	var doc json.RawMessage
	err := c.Cached(ctx, fmt.Sprintf("problem:%d", pid), refresh, &doc, func() error {
		var resp problemResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/problem?problem_id=%d", c.apiURL, pid), &resp); err != nil {
			return err
		}
		if resp.Success == nil {
			return failure(resp.Failure, "problem %d", pid)
		}
		if !json.Valid([]byte(*resp.Success)) {
			return errors.New(errors.ErrCodeInvalidFormat, "problem %d: malformed document", pid)
		}
		doc = json.RawMessage(*resp.Success)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("problem %d: %w", pid, err)
	}
	return doc, nil
}

// CDNProblem fetches a problem document from the CDN, without the
// Authorization header.
func (c *Client) CDNProblem(ctx context.Context, pid int) ([]byte, error) {
	if err := errors.ValidateProblemID(pid); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/problems/%d.json", c.cdnURL, pid)
	data, err := c.GetBytes(ctx, u, map[string]string{"Authorization": ""})
	if err != nil {
		return nil, fmt.Errorf("cdn problem %d: %w", pid, err)
	}
	return data, nil
}

// Submit posts a solution and returns the submission ID.
func (c *Client) Submit(ctx context.Context, pid int, sol *problem.Solution) (string, error) {
	if err := errors.ValidateProblemID(pid); err != nil {
		return "", err
	}
	contents, err := json.Marshal(sol)
	if err != nil {
		return "", err
	}
	var sid string
	req := submissionRequest{ProblemID: pid, Contents: string(contents)}
	if err := c.Post(ctx, c.apiURL+"/submission", req, &sid); err != nil {
		return "", fmt.Errorf("submit %d: %w", pid, err)
	}
	return sid, nil
}

// Submission fetches the state of a submission.
func (c *Client) Submission(ctx context.Context, sid string) (*Submission, error) {
	if sid == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty submission id")
	}
	var resp submissionResponse
	u := c.apiURL + "/submission?submission_id=" + url.QueryEscape(sid)
	if err := c.Get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("submission %s: %w", sid, err)
	}
	if resp.Success == nil {
		return nil, failure(resp.Failure, "submission %s", sid)
	}
	return &resp.Success.Submission, nil
}

func failure(msg *string, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if msg != nil {
		return errors.New(errors.ErrCodeNotFound, "%s: %s", what, *msg)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "%s: response has neither Success nor Failure", what)
}
