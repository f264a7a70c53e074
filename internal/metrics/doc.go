// Package metrics exposes Prometheus instrumentation for the flowfi runtime:
// storage read/write/commit latencies (via the pebblestore MetricsHook) and
// per-operation payment counters.
package metrics
