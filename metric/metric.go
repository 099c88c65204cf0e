// Package metric provides Prometheus metrics for JSON-LD processing
// operations: expansion, compaction, flattening, and remote context
// loading. Metrics are optional throughout the library; a nil *Metrics
// disables collection.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels for processing metrics.
const (
	OperationExpand  = "expand"
	OperationCompact = "compact"
	OperationFlatten = "flatten"
)

// Metrics contains the processing metrics for one processor instance.
type Metrics struct {
	OperationsTotal    *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	RemoteContextLoads *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all processing metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jsonld",
				Subsystem: "processor",
				Name:      "operations_total",
				Help:      "Total number of processing operations",
			},
			[]string{"operation", "status"},
		),
		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jsonld",
				Subsystem: "processor",
				Name:      "duration_seconds",
				Help:      "Processing operation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation"},
		),
		RemoteContextLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jsonld",
				Subsystem: "loader",
				Name:      "remote_contexts_total",
				Help:      "Total number of remote context fetches",
			},
			[]string{"status"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jsonld",
				Subsystem: "processor",
				Name:      "errors_total",
				Help:      "Total number of processing errors by categorical code",
			},
			[]string{"code"},
		),
	}
}

// Register registers all metrics with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.OperationsTotal,
		m.ProcessingDuration,
		m.RemoteContextLoads,
		m.ErrorsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveOperation records one processing operation. Safe on nil Metrics.
func (m *Metrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.ProcessingDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveRemoteLoad records one remote context fetch. Safe on nil Metrics.
func (m *Metrics) ObserveRemoteLoad(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RemoteContextLoads.WithLabelValues(status).Inc()
}

// ObserveError records one categorical processing error. Safe on nil
// Metrics.
func (m *Metrics) ObserveError(code string) {
	if m == nil || code == "" {
		return
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
