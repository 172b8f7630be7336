// Package metric provides Prometheus metrics for dictcore.
//
//   - prometheus.go: registry, operation counters and latency histogram
//   - collector.go: collector reading dict.Stats from named sources
//
// Metrics are exposed at /metrics in Prometheus format when the metrics
// listener is enabled.
package metric
