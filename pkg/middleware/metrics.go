package middleware

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/router"
)

// Navigation outcomes used as the status label.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
	StatusNotFound  = "not_found"
)

// RouteUnmatched is the route label of navigations that matched no route.
const RouteUnmatched = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "crmnav").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "crmnav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects navigation metrics. It is a router.Middleware; the
// server also reports page misses and live connections through it.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	notFoundTotal      prometheus.Counter
	liveConnections    prometheus.Gauge
	wsErrors           *prometheus.CounterVec
}

var _ router.Middleware = (*Metrics)(nil)

// Prometheus creates the navigation metrics and registers them.
//
// Metrics collected:
//   - crmnav_navigations_total: Counter of navigations by route, mode and status
//   - crmnav_navigation_duration_seconds: Histogram of navigation duration by route
//   - crmnav_navigation_errors_total: Counter of failed navigations by route and error code
//   - crmnav_not_found_total: Counter of requests for undeclared paths
//   - crmnav_live_connections: Gauge of open live navigation connections
//   - crmnav_websocket_errors_total: Counter of WebSocket errors by type
//
// Registering twice on the same registry panics, as with promauto.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "mode", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		notFoundTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "not_found_total",
			Help:        "Total number of requests for undeclared paths",
			ConstLabels: config.ConstLabels,
		}),

		liveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_connections",
			Help:        "Number of open live navigation connections",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Handle implements router.Middleware.
func (m *Metrics) Handle(ctx context.Context, t *router.Transition, next func() error) error {
	if m == nil {
		return next()
	}

	route := t.RouteName()
	start := time.Now()
	err := next()
	m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

	status := StatusSuccess
	switch {
	case err != nil:
		status = StatusError
		m.navigationErrors.WithLabelValues(route, categorizeError(err)).Inc()
	case !t.Committed():
		status = StatusCancelled
	}
	m.navigationsTotal.WithLabelValues(route, t.Mode, status).Inc()
	return err
}

// categorizeError returns a low-cardinality label for err: its error code
// when it carries one, otherwise a coarse class.
func categorizeError(err error) string {
	switch {
	case stderrors.Is(err, context.Canceled):
		return "cancelled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case stderrors.Is(err, router.ErrNoMatch):
		return "not_found"
	}
	if code := errors.Code(err); code != "" {
		return code
	}
	return "internal"
}

// RecordUnmatched counts a navigation that matched no route. Such
// navigations never reach the middleware chain.
func (m *Metrics) RecordUnmatched(mode string) {
	if m != nil {
		m.navigationsTotal.WithLabelValues(RouteUnmatched, mode, StatusNotFound).Inc()
	}
}

// RecordNotFound counts a 404 page.
func (m *Metrics) RecordNotFound() {
	if m != nil {
		m.notFoundTotal.Inc()
	}
}

// RecordConnectionOpen counts a new live navigation connection.
func (m *Metrics) RecordConnectionOpen() {
	if m != nil {
		m.liveConnections.Inc()
	}
}

// RecordConnectionClose counts a closed live navigation connection.
func (m *Metrics) RecordConnectionClose() {
	if m != nil {
		m.liveConnections.Dec()
	}
}

// RecordWebSocketError counts a WebSocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	if m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}
