package integrations

import (
	"net/http"
	"time"

	"github.com/paiv/icfpc2023/pkg/errors"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the requested resource doesn't exist.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected statuses).
	ErrNetwork = errors.New(errors.ErrCodeNetwork, "network error")

	// ErrUnauthorized is returned for 401 and 403 responses, usually a
	// missing or expired API token.
	ErrUnauthorized = errors.New(errors.ErrCodeUnauthorized, "unauthorized")
)

// NewHTTPClient creates an HTTP client with a standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
