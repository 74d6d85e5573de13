// Package metrics provides Prometheus metrics collection for the
// custodian integration service.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Auth metrics
	AuthFailures *prometheus.CounterVec

	// Schema metrics
	SchemaOperations  *prometheus.CounterVec
	SchemaVersions    *prometheus.CounterVec
	ImportRejections  prometheus.Counter
	CompareDuration   prometheus.Histogram

	// Document metrics
	DocumentsIngested *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "custodian",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "custodian",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "auth_failures_total",
				Help:      "Total number of authentication failures",
			},
			[]string{"reason"},
		),
		SchemaOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "schema_operations_total",
				Help:      "Schema operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		SchemaVersions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "schema_versions_created_total",
				Help:      "Schema versions created, by source (api, import)",
			},
			[]string{"source"},
		),
		ImportRejections: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "schema_import_rejections_total",
				Help:      "Import documents rejected by validation",
			},
		),
		CompareDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "custodian",
				Name:      "schema_compare_duration_seconds",
				Help:      "Schema comparison duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		DocumentsIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "documents_ingested_total",
				Help:      "Documents ingested by format",
			},
			[]string{"format"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "custodian",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
	}
}

// NormalizePath collapses dynamic path segments so request metrics keep
// a bounded label cardinality. Segments following a collection name are
// replaced with {id} unless they are a known static sub-path.
func NormalizePath(path string) string {
	segments := strings.Split(strings.TrimSuffix(path, "/"), "/")
	static := map[string]bool{
		"compare": true, "import": true, "versions": true, "export": true,
	}
	collection := false
	for i, seg := range segments {
		if collection && !static[seg] {
			segments[i] = "{id}"
		}
		collection = seg == "schemas" || seg == "documents" || seg == "users"
	}
	return strings.Join(segments, "/")
}
