// Package metrics exposes Prometheus counters for factory resolution,
// option validation and source/sink creation.
//
// # Basic Usage
//
//	metrics.RecordResolution("kafka", "source", metrics.StatusSuccess)
//	metrics.RecordValidationFailure(err)
//	metrics.SourcesCreated.WithLabelValues("kafka").Inc()
//
// All collectors are registered with the default Prometheus registry on
// package initialization, so a process only needs to expose
// promhttp.Handler() to publish them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// Resolutions counts registry lookups.
	// Labels: identifier ("unknown" for unregistered lookups),
	// capability (any/source/sink), status (success/failure)
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablefactory",
			Subsystem: "registry",
			Name:      "resolutions_total",
			Help:      "Total number of factory resolutions",
		},
		[]string{"identifier", "capability", "status"},
	)

	// ValidationFailures counts rejected option maps by error type.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablefactory",
			Subsystem: "options",
			Name:      "validation_failures_total",
			Help:      "Total number of option validation failures",
		},
		[]string{"error_type"},
	)

	// SourcesCreated counts table sources created per factory.
	SourcesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablefactory",
			Subsystem: "factory",
			Name:      "sources_created_total",
			Help:      "Total number of table sources created",
		},
		[]string{"identifier"},
	)

	// SinksCreated counts table sinks created per factory.
	SinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablefactory",
			Subsystem: "factory",
			Name:      "sinks_created_total",
			Help:      "Total number of table sinks created",
		},
		[]string{"identifier"},
	)

	// RegisteredFactories is the number of factories in the last built registry.
	RegisteredFactories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tablefactory",
			Subsystem: "registry",
			Name:      "factories",
			Help:      "Number of factories in the most recently built registry",
		},
	)
)

// RecordResolution counts one registry lookup. identifier must be a
// registered identifier or "unknown".
func RecordResolution(identifier, capability, status string) {
	Resolutions.WithLabelValues(identifier, capability, status).Inc()
}

// RecordValidationFailure counts err under its structured error type.
func RecordValidationFailure(err error) {
	if err == nil {
		return
	}
	ValidationFailures.WithLabelValues(string(errors.TypeOf(err))).Inc()
}
