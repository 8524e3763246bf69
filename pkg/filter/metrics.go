package filter

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cleanviews/cleanviews/pkg/views"
)

// MetricsConfig configures the Prometheus decision observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "cleanviews").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus decision observer.
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
		Namespace: "cleanviews",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// filterMetrics holds the Prometheus metrics for the forwarding filter.
// Decisions are labeled by action only; request paths would be an unbounded
// label set.
type filterMetrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	pathParamsCount    prometheus.Histogram
}

// globalMetrics is the singleton metrics instance, created on the first call
// to Metrics().
var (
	globalMetrics   *filterMetrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *filterMetrics {
	factory := promauto.With(config.Registry)

	return &filterMetrics{
		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of view routing decisions by action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		resolutionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolution_duration_seconds",
			Help:        "View routing decision duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		pathParamsCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "path_params_count",
			Help:        "Number of MultiViews path parameters per forwarded request",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 3, 5, 8},
		}),
	}
}

// promObserver records routing decisions as Prometheus metrics.
type promObserver struct {
	m *filterMetrics
}

// ObserveResolution implements Observer.
func (o *promObserver) ObserveResolution(_ string, d views.Decision, elapsed time.Duration) {
	action := d.Action.String()
	o.m.resolutionsTotal.WithLabelValues(action).Inc()
	o.m.resolutionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	if d.Action == views.Forward {
		o.m.pathParamsCount.Observe(float64(len(d.PathParams)))
	}
}

// Metrics creates an Observer that collects Prometheus metrics for routing
// decisions.
//
// Metrics collected:
//   - cleanviews_resolutions_total: Counter of decisions by action
//   - cleanviews_resolution_duration_seconds: Histogram of decision duration
//   - cleanviews_path_params_count: Histogram of MultiViews path parameter
//     counts for forwarded requests
//
// Example:
//
//	handler := filter.Forwarding(resolver,
//	    filter.WithObserver(filter.Metrics()),
//	)(mux)
//
//	http.Handle("/metrics", promhttp.Handler())
func Metrics(opts ...MetricsOption) Observer {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return &promObserver{m: m}
}
