// Package cache stores solver answers and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache] for the CLI, one JSON file per entry under a directory
//   - [RedisCache] for the HTTP service, shared between replicas
//   - [NullCache] when caching is disabled
//
// Keys come from a [Keyer], so every producer of cache entries agrees on one
// layout. [ScopedKeyer] prefixes all keys, which the CLI uses to isolate
// entries written by different solver versions.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Get reports a miss as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes.
const (
	// TTLSolution applies to seeded solver answers. They are deterministic,
	// so the lifetime only bounds disk use.
	TTLSolution = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG/PNG/PDF/DOT output.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLProblem applies to problem documents fetched from the contest CDN.
	TTLProblem = 90 * 24 * time.Hour
)

// SolutionKeyOpts are the solver options that change an answer.
type SolutionKeyOpts struct {
	Seed       uint64  `json:"seed"`
	GridRadius float64 `json:"grid_radius"`
	TimeLimit  uint32  `json:"time_limit"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Listeners bool    `json:"listeners"`
	Scale     float64 `json:"scale"`
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a fetched HTTP document.
	HTTPKey(namespace, key string) string
	// SolutionKey keys a solver answer for a problem payload hash.
	SolutionKey(problemHash string, opts SolutionKeyOpts) string
	// ArtifactKey keys a rendered artifact for a solution hash.
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key layout:
//
//	http:<namespace>:<key>
//	solution:<sha256(problemHash, opts)>
//	artifact:<sha256(solutionHash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns http:<namespace>:<key>.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SolutionKey hashes the problem hash together with the options.
func (DefaultKeyer) SolutionKey(problemHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", problemHash, opts)
}

// ArtifactKey hashes the solution hash together with the options.
func (DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}
