package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// newTestCLI returns a CLI wired to buffers, isolated from the user's
// config, cache and environment.
func newTestCLI(t *testing.T, stdin []byte) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("STAGEPLACE_CONFIG", "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stdout, logs, ui bytes.Buffer
	c := New(&logs, log.InfoLevel)
	c.Stdin = bytes.NewReader(stdin)
	c.Stdout = &stdout

	old := uiOut
	uiOut = &ui
	t.Cleanup(func() { uiOut = old })
	return c, &stdout
}

// execute runs the root command with args.
func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfig(t *testing.T) {
	c, _ := newTestCLI(t, nil)
	c.Config.CacheDir = "/var/cache/sp"

	dir, err := c.cacheDir()
	if err != nil || dir != "/var/cache/sp" {
		t.Errorf("cacheDir() = %q, %v; want configured dir", dir, err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg, ,dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format string
		multi        bool
		want         string
	}{
		{"solves/solution-1", "svg", false, "solves/solution-1.svg"},
		{"solves/solution-1", "graphviz", true, "solves/solution-1.neato.svg"},
		{"out.png", "png", false, "out.png"},
		{"out.png", "pdf", true, "out.pdf"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.base, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestFetchRange(t *testing.T) {
	tests := []struct {
		args        []string
		first, last int
		all, cdn    bool
		wantErr     bool
	}{
		{args: []string{"42"}, first: 42, last: 42, cdn: true},
		{args: []string{"1", "10"}, first: 1, last: 10},
		{args: []string{"all"}, first: 1, all: true},
		{args: []string{"all", "5"}, wantErr: true},
		{args: []string{"x"}, wantErr: true},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"5", "2"}, wantErr: true},
		{args: []string{"5", "y"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			first, last, all, cdn, err := fetchRange(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("fetchRange(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if first != tt.first || last != tt.last || all != tt.all || cdn != tt.cdn {
				t.Errorf("fetchRange(%v) = %d, %d, %v, %v", tt.args, first, last, all, cdn)
			}
		})
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	c, stdout := newTestCLI(t, nil)
	dir := t.TempDir()

	if err := execute(t, c, "cache", "path", "--cache-dir", dir); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestConfigFromEnv(t *testing.T) {
	c, stdout := newTestCLI(t, nil)
	t.Setenv("STAGEPLACE_CACHE_DIR", "/from/env")

	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "/from/env" {
		t.Errorf("cache path = %q, want /from/env", got)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	c, _ := newTestCLI(t, nil)
	if err := execute(t, c, "cache", "path", "--cache-backend", "memcached"); err == nil {
		t.Error("expected an error for an unknown cache backend")
	}
}

func TestVersionCommand(t *testing.T) {
	c, stdout := newTestCLI(t, nil)
	if err := execute(t, c, "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout.String(), "version:") {
		t.Errorf("version output = %q", stdout.String())
	}
}
