package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all runtime-level Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Storage metrics, fed through the pebblestore MetricsHook.
	StorageReadDuration   prometheus.Histogram
	StorageWriteDuration  prometheus.Histogram
	StorageCommitDuration prometheus.Histogram
	StorageReadBytes      prometheus.Counter
	StorageWriteBytes     prometheus.Counter

	// Payment operation metrics.
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	EventsEmitted     *prometheus.CounterVec
	TransfersTotal    *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		StorageReadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowfi",
			Subsystem: "storage",
			Name:      "read_duration_seconds",
			Help:      "Pebble point-read latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StorageWriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowfi",
			Subsystem: "storage",
			Name:      "write_duration_seconds",
			Help:      "Pebble single-key write latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StorageCommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowfi",
			Subsystem: "storage",
			Name:      "commit_duration_seconds",
			Help:      "Pebble batch commit latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StorageReadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowfi",
			Subsystem: "storage",
			Name:      "read_bytes_total",
			Help:      "Total bytes read from storage",
		}),
		StorageWriteBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowfi",
			Subsystem: "storage",
			Name:      "write_bytes_total",
			Help:      "Total bytes written to storage",
		}),

		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowfi",
			Subsystem: "payments",
			Name:      "operations_total",
			Help:      "Total lifecycle operations by name and status",
		}, []string{"op", "status"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowfi",
			Subsystem: "payments",
			Name:      "operation_duration_seconds",
			Help:      "Lifecycle operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowfi",
			Subsystem: "payments",
			Name:      "events_emitted_total",
			Help:      "Total lifecycle events appended to the event log",
		}, []string{"type"}),
		TransfersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowfi",
			Subsystem: "ledger",
			Name:      "transfers_total",
			Help:      "Total token transfers by status",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.StorageReadDuration,
		m.StorageWriteDuration,
		m.StorageCommitDuration,
		m.StorageReadBytes,
		m.StorageWriteBytes,
		m.OperationsTotal,
		m.OperationDuration,
		m.EventsEmitted,
		m.TransfersTotal,
	)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOperation records one lifecycle operation outcome.
func (m *Metrics) ObserveOperation(op, status string, elapsed time.Duration) {
	m.OperationsTotal.WithLabelValues(op, status).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// StorageHook implements the pebblestore MetricsHook interface.
type StorageHook struct{ M *Metrics }

func (h StorageHook) ObserveWrite(elapsed time.Duration, bytes int) {
	h.M.StorageWriteDuration.Observe(elapsed.Seconds())
	h.M.StorageWriteBytes.Add(float64(bytes))
}

func (h StorageHook) ObserveRead(elapsed time.Duration, bytes int) {
	h.M.StorageReadDuration.Observe(elapsed.Seconds())
	h.M.StorageReadBytes.Add(float64(bytes))
}

func (h StorageHook) ObserveBatchCommit(elapsed time.Duration, bytes int) {
	h.M.StorageCommitDuration.Observe(elapsed.Seconds())
	h.M.StorageWriteBytes.Add(float64(bytes))
}
