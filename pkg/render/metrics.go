package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics of the render engine.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "roko").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the render metrics.
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
		Namespace: "roko",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors updated by patch application.
// A nil *Metrics is valid and records nothing.
//
// Collected:
//   - roko_patches_applied_total: node patches by op
//   - roko_attr_patches_total: attribute patches by op and attribute kind
//   - roko_dispatch_total: dispatched messages by event and status
//   - roko_apply_duration_seconds: duration of Apply passes
//   - roko_apply_errors_total: aborted passes by error code
type Metrics struct {
	patches       *prometheus.CounterVec
	attrPatches   *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
	applyDuration prometheus.Histogram
	applyErrors   *prometheus.CounterVec
}

// NewMetrics creates and registers the render metrics. Registering twice
// against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_applied_total",
			Help:        "Total number of node patches applied, by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		attrPatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attr_patches_total",
			Help:        "Total number of attribute patches applied, by op and kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "kind"}),

		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of messages dispatched, by event and status",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "status"}),

		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "apply_duration_seconds",
			Help:        "Patch application pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		applyErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "apply_errors_total",
			Help:        "Total number of aborted passes, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

func (m *Metrics) patch(op string) {
	if m == nil {
		return
	}
	m.patches.WithLabelValues(op).Inc()
}

func (m *Metrics) attrPatch(op, kind string) {
	if m == nil {
		return
	}
	m.attrPatches.WithLabelValues(op, kind).Inc()
}

func (m *Metrics) dispatch(event, status string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(event, status).Inc()
}

func (m *Metrics) pass(seconds float64, code string) {
	if m == nil {
		return
	}
	m.applyDuration.Observe(seconds)
	if code != "" {
		m.applyErrors.WithLabelValues(code).Inc()
	}
}
