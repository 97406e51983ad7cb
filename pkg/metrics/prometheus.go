package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paiv/icfpc2023/pkg/observability"
)

// solveBuckets cover solves from milliseconds up to the longest contest
// time limits.
var solveBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600}

// Manager owns every stageplace metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Solver
	solvesStarted  prometheus.Counter
	solves         *prometheus.CounterVec
	solveDuration  prometheus.Histogram
	solveScore     prometheus.Gauge
	solveSwaps     prometheus.Histogram
	solvesInFlight prometheus.Gauge
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	// Cache
	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	// Contest API client
	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	apiErrors   *prometheus.CounterVec

	// HTTP service
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a metrics manager. Without [WithPrometheusRegistry] metrics
// register on the default registry.
func New(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stageplace",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.solvesStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solves_started_total",
		Help:      "Total number of solves started",
	})
	m.solves = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solves_total",
		Help:      "Total number of finished solves by outcome",
	}, []string{"outcome"})
	m.solveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock duration of solves",
		Buckets:   solveBuckets,
	})
	m.solveScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_solve_score",
		Help:      "Final weighted score of the most recent solve",
	})
	m.solveSwaps = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_swaps",
		Help:      "Accepted optimizer swaps per solve",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	m.solvesInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solves_in_flight",
		Help:      "Solves currently running",
	})
	m.renders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "renders_total",
		Help:      "Total number of renders by format and outcome",
	}, []string{"format", "outcome"})
	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_seconds",
		Help:      "Duration of renders",
		Buckets:   m.histogramBuckets,
	})

	m.cacheOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_operations_total",
		Help:      "Cache lookups and writes by key type and result",
	}, []string{"key_type", "result"})
	m.cacheBytes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache by key type",
	}, []string{"key_type"})

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contest_requests_total",
		Help:      "Contest API responses by method, path and status",
	}, []string{"method", "path", "status"})
	m.apiDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contest_request_duration_seconds",
		Help:      "Contest API request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "path"})
	m.apiErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contest_errors_total",
		Help:      "Contest API transport failures by method and path",
	}, []string{"method", "path"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Requests served by route, method and status",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of served requests by route",
		Buckets:   solveBuckets,
	}, []string{"route"})
}

// =============================================================================
// observability.SolveHooks
// =============================================================================

// OnSolveStart counts a started solve.
func (m *Manager) OnSolveStart(context.Context, int, int) {
	m.solvesStarted.Inc()
	m.solvesInFlight.Inc()
}

// OnSolveComplete records the outcome of a solve.
func (m *Manager) OnSolveComplete(_ context.Context, ev observability.SolveEvent) {
	m.solvesInFlight.Dec()
	outcome := "ok"
	switch {
	case ev.Err != nil:
		outcome = "error"
	case ev.Cached:
		outcome = "cached"
	case ev.TimedOut:
		outcome = "timeout"
	}
	m.solves.WithLabelValues(outcome).Inc()
	if ev.Err != nil {
		return
	}
	m.solveScore.Set(float64(ev.Score))
	if !ev.Cached {
		m.solveDuration.Observe(ev.Duration.Seconds())
		m.solveSwaps.Observe(float64(ev.Swaps))
	}
}

// OnRenderComplete records a render.
func (m *Manager) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(format, outcome).Inc()
	m.renderDuration.Observe(d.Seconds())
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

// OnCacheHit counts a hit.
func (m *Manager) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss counts a miss.
func (m *Manager) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet counts a write and its size.
func (m *Manager) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

// OnRequest is a no-op; requests are counted when their response arrives.
func (m *Manager) OnRequest(context.Context, string, string, string) {}

// OnResponse records a contest API response.
func (m *Manager) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	m.apiRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// OnError records a contest API transport failure.
func (m *Manager) OnError(_ context.Context, method, _, path string, _ error) {
	m.apiErrors.WithLabelValues(method, path).Inc()
}

// =============================================================================
// HTTP service
// =============================================================================

// ObserveHTTPRequest records one request served by the HTTP service.
func (m *Manager) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ observability.SolveHooks = (*Manager)(nil)
	_ observability.CacheHooks = (*Manager)(nil)
	_ observability.HTTPHooks  = (*Manager)(nil)
)
