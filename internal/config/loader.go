package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/paiv/icfpc2023/pkg/errors"
)

// EnvPrefix prefixes every environment variable; STAGEPLACE_CONFIG names the
// YAML file.
const EnvPrefix = "STAGEPLACE_"

// LoadOptions feed the loader's outer layers.
type LoadOptions struct {
	// Path is a YAML file; it wins over STAGEPLACE_CONFIG.
	Path string
	// Overrides map koanf keys to values, typically the command-line flags
	// the user set explicitly. They win over everything else.
	Overrides map[string]any
}

// Load builds a Config by layering defaults, an optional YAML file,
// environment variables and overrides.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	base := New()
	k := koanf.New(".")

	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// STAGEPLACE_GRID_RADIUS -> grid_radius. Keys are flat, so underscores
	// are preserved.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	for key, v := range opts.Overrides {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, key, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks field values.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case !slices.Contains(logLevels, strings.ToLower(c.LogLevel)):
		return invalid("log_level %q (want one of %v)", c.LogLevel, logLevels)
	case c.GridRadius <= 0:
		return invalid("grid_radius must be positive, got %v", c.GridRadius)
	case c.MaxGridPoints <= 0:
		return invalid("max_grid_points must be positive, got %d", c.MaxGridPoints)
	case c.TimeLimit < 0:
		return invalid("time_limit must not be negative, got %d", c.TimeLimit)
	case !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.CacheBackend):
		return invalid("cache_backend %q (want file, redis or none)", c.CacheBackend)
	case c.CacheBackend == CacheRedis && c.RedisAddr == "":
		return invalid("redis_addr is required for the redis cache")
	case !slices.Contains([]string{StoreFile, StoreMongo}, c.StoreBackend):
		return invalid("store_backend %q (want file or mongo)", c.StoreBackend)
	case c.StoreBackend == StoreMongo && c.MongoURI == "":
		return invalid("mongo_uri is required for the mongo store")
	case c.ImproveThreshold < 0:
		return invalid("improve_threshold must not be negative")
	case c.ListenAddr == "":
		return invalid("listen_addr must not be empty")
	}
	for name, u := range map[string]string{"api_url": c.APIURL, "cdn_url": c.CDNURL} {
		if err := errors.ValidateURL(u); err != nil {
			return invalid("%s: %s", name, errors.UserMessage(err))
		}
	}
	return nil
}
