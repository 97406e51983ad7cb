// Package cli implements the stageplace command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paiv/icfpc2023/internal/config"
	"github.com/paiv/icfpc2023/pkg/buildinfo"
	"github.com/paiv/icfpc2023/pkg/cache"
	"github.com/paiv/icfpc2023/pkg/integrations/contest"
	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/render"
	"github.com/paiv/icfpc2023/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stageplace"

	// redisKeyPrefix namespaces cache keys in a shared Redis.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// configFlags maps command-line flags onto config keys. A flag the user set
// explicitly overrides the file and the environment.
var configFlags = map[string]string{
	"grid-radius":   "grid_radius",
	"seed":          "seed",
	"time-limit":    "time_limit",
	"max-grid":      "max_grid_points",
	"cache-backend": "cache_backend",
	"cache-dir":     "cache_dir",
	"redis":         "redis_addr",
	"store-backend": "store_backend",
	"solves":        "solves_dir",
	"problems":      "problems_dir",
	"mongo":         "mongo_uri",
	"api-url":       "api_url",
	"credentials":   "credentials_file",
	"listen":        "listen_addr",
	"threshold":     "improve_threshold",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	// Stdin and Stdout carry binary payloads and answers.
	Stdin  io.Reader
	Stdout io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.New(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Invoked with no subcommand it is the binary solver: payload in, answer out.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName + " [payload]",
		Short: "Stageplace places performers on a stage for the best audience score",
		Long: `Stageplace solves the stage-placement problem.

With no subcommand it reads a binary problem payload (from the named file, or
length-prefixed from stdin), solves it within the payload's time limit and
writes the binary answer to stdout. Diagnostics go to stderr.`,
		Version:           buildinfo.Version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runBinary(cmd.Context(), path)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (YAML); default $STAGEPLACE_CONFIG")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.String("cache-backend", "", "solution cache: file, redis, none")
	pf.String("cache-dir", "", "cache directory for the file backend")
	pf.String("redis", "", "redis address for the redis cache backend")
	addSolverFlags(root.Flags())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.unpackCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addSolverFlags registers the flags shared by every command that solves.
func addSolverFlags(fs *pflag.FlagSet) {
	fs.Float64("grid-radius", 0, "grid spacing radius (default from config, 5)")
	fs.Uint64("seed", 0, "fixed random seed; enables solution caching")
	fs.Int("time-limit", 0, "solve time limit in seconds (0 keeps the problem's)")
	fs.Int("max-grid", 0, "reject stages needing more grid points (default from config)")
}

// addStoreFlags registers the flags of commands that use the solution store.
func addStoreFlags(fs *pflag.FlagSet) {
	fs.String("store-backend", "", "solution store: file, mongo")
	fs.String("solves", "", "solutions directory for the file store")
	fs.String("mongo", "", "MongoDB URI for the mongo store")
}

// loadConfig layers config file, environment and explicitly set flags.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	overrides := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := configFlags[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	cfg, err := config.Load(cmd.Context(), config.LoadOptions{Path: c.configPath, Overrides: overrides})
	if err != nil {
		return err
	}
	c.Config = cfg

	if !c.verbose {
		level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err == nil {
			c.SetLogLevel(level)
		}
	}
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
}

// newCache opens the configured cache backend. A backend that cannot be
// opened degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	var (
		backend cache.Cache
		err     error
	)
	switch c.Config.CacheBackend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		backend, err = cache.NewRedisCache(ctx, c.Config.RedisAddr, redisKeyPrefix)
	default:
		var dir string
		if dir, err = c.cacheDir(); err == nil {
			backend, err = cache.NewFileCache(dir)
		}
	}
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Config.CacheBackend, "err", err)
		return cache.NewNullCache()
	}
	return backend
}

// newStore opens the configured solution store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.StoreBackend == config.StoreMongo {
		return store.NewMongoStore(ctx, c.Config.MongoURI, c.Config.MongoDatabase)
	}
	return store.NewFileStore(c.Config.SolvesDir)
}

// newContestClient builds an API client with headers from the credentials
// file. Problem documents are cached in the regular cache backend.
func (c *CLI) newContestClient(ctx context.Context) (*contest.Client, error) {
	headers, err := contest.LoadCredentials(c.Config.CredentialsFile)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		c.Logger.Debug("no credentials", "file", c.Config.CredentialsFile)
	}
	return contest.NewClient(c.newCache(ctx, false), headers,
		contest.WithAPIURL(c.Config.APIURL),
		contest.WithCDNURL(c.Config.CDNURL),
	), nil
}

// solveOptions builds pipeline options from the config.
func (c *CLI) solveOptions() pipeline.Options {
	return pipeline.Options{
		Seed:          c.Config.Seed,
		Seeded:        c.Config.Seed != 0,
		GridRadius:    c.Config.GridRadius,
		MaxGridPoints: c.Config.MaxGridPoints,
		TimeLimit:     time.Duration(c.Config.TimeLimit) * time.Second,
		Logger:        c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/stageplace/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath derives an output file from base and format. A base with an
// extension is used as-is when only one format is written.
func outputPath(base, format string, multi bool) string {
	ext := "." + render.Extension(format)
	if filepath.Ext(base) != "" {
		if !multi {
			return base
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ext
}

func requirePID(pid int) error {
	if pid == 0 {
		return fmt.Errorf("problem id required (use --pid or a name like problem-42.json)")
	}
	return nil
}
