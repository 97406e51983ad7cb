package main

import (
	"context"
	"fmt"
	"testing"

	perrors "github.com/paiv/icfpc2023/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"interrupted", context.Canceled, exitInterrupted},
		{"wrapped interrupt", fmt.Errorf("solve: %w", context.Canceled), exitInterrupted},
		{"missing input", perrors.New(perrors.ErrCodeMissingInput, "missing input"), exitInput},
		{"short read", perrors.New(perrors.ErrCodeShortRead, "truncated"), exitInput},
		{"missing file", perrors.New(perrors.ErrCodeFileNotFound, "open x"), exitInput},
		{"invalid payload", perrors.New(perrors.ErrCodeInvalidInput, "role out of range"), exitFailure},
		{"plain error", fmt.Errorf("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
