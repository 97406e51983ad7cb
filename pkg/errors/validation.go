package errors

import (
	"strings"
	"unicode"
)

// MaxProblemID bounds problem identifiers accepted from the command line.
const MaxProblemID = 10_000

// ValidateProblemID checks that pid is a positive contest problem number.
func ValidateProblemID(pid int) error {
	if pid <= 0 {
		return New(ErrCodeInvalidInput, "problem id must be positive, got %d", pid)
	}
	if pid > MaxProblemID {
		return New(ErrCodeInvalidInput, "problem id too large (max %d)", MaxProblemID)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateHeaderName checks a credentials header name.
// Header names are sent verbatim to the contest API, so control characters,
// separators and whitespace are rejected.
func ValidateHeaderName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "header name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) || r == ':' {
			return New(ErrCodeInvalidInput, "header name contains invalid characters: %q", name)
		}
	}
	return nil
}
