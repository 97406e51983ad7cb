// Package config defines stageplace configuration and its layered loader.
//
// Precedence (low -> high): defaults, YAML file, STAGEPLACE_* environment
// variables, command-line flags.
package config

import (
	"github.com/paiv/icfpc2023/pkg/integrations/contest"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
	"github.com/paiv/icfpc2023/pkg/store"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Solver
	GridRadius float64 `koanf:"grid_radius"`
	Seed       uint64  `koanf:"seed"`       // 0 = time-seeded
	TimeLimit  int     `koanf:"time_limit"` // seconds; 0 = use the payload's

	// MaxGridPoints rejects stages whose candidate grid would be larger.
	MaxGridPoints int `koanf:"max_grid_points"`

	// Cache
	CacheBackend string `koanf:"cache_backend"`
	CacheDir     string `koanf:"cache_dir"` // empty = ~/.cache/stageplace
	RedisAddr    string `koanf:"redis_addr"`

	// Solution store
	StoreBackend  string `koanf:"store_backend"`
	SolvesDir     string `koanf:"solves_dir"`
	ProblemsDir   string `koanf:"problems_dir"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// Contest API
	APIURL          string `koanf:"api_url"`
	CDNURL          string `koanf:"cdn_url"`
	CredentialsFile string `koanf:"credentials_file"`

	// ImproveThreshold is the score gain required to replace a stored
	// solution.
	ImproveThreshold int64 `koanf:"improve_threshold"`

	// LightningCutoff is the last problem ID scored without closeness.
	LightningCutoff int `koanf:"lightning_cutoff"`

	// ListenAddr is the HTTP service address, e.g. ":8080".
	ListenAddr string `koanf:"listen_addr"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		GridRadius:       placement.DefaultGridRadius,
		MaxGridPoints:    placement.DefaultMaxGridPoints,
		CacheBackend:     CacheFile,
		RedisAddr:        "localhost:6379",
		StoreBackend:     StoreFile,
		SolvesDir:        "solves",
		ProblemsDir:      "task",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    store.DefaultMongoDatabase,
		APIURL:           contest.DefaultAPIURL,
		CDNURL:           contest.DefaultCDNURL,
		CredentialsFile:  contest.DefaultCredentialsFile,
		ImproveThreshold: store.DefaultImproveThreshold,
		LightningCutoff:  problem.DefaultLightningCutoff,
		ListenAddr:       ":8080",
	}
}
