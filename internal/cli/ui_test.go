package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/paiv/icfpc2023/pkg/store"
)

func TestFormatDiff(t *testing.T) {
	tests := []struct {
		score, base int64
		want        string
	}{
		{100, math.MinInt64, "new"},
		{1500, 1000, "+500"},
		{900, 1000, "-100"},
		{1000, 1000, "+0"},
	}
	for _, tt := range tests {
		if got := formatDiff(tt.score, tt.base); got != tt.want {
			t.Errorf("formatDiff(%d, %d) = %q, want %q", tt.score, tt.base, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Jun 10, 2023"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestRecordsTable(t *testing.T) {
	now := time.Now()
	verified := int64(4200)
	records := []*store.Record{
		{ProblemID: 7, RunID: "a", Score: 5000, Verified: &verified, UpdatedAt: now},
		{ProblemID: 12, SubmissionID: "sub-1"},
	}

	out := recordsTable(records, now)
	for _, want := range []string{"Problem", "7", "5000", "4200", "12", "pending", "just now"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
