// Package metrics provides real-time metrics collection for the elector.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Inbound request counts
//   - Per-backend call outcomes (success, timeout, error)
//   - Call latencies with percentile calculations (P50, P95, P99)
//   - Which backend won each election
//   - Backend health status
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the request path. Events are sent via a buffered channel with
// non-blocking semantics to prevent performance degradation under load.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:     metrics.EventCallCompleted,
//		Backend:  "canary",
//		Outcome:  "success",
//		Duration: 150 * time.Millisecond,
//	})
//
//	snapshot := collector.Snapshot()
//
// The package provides thread-safe metrics storage using sync.RWMutex and
// supports graceful shutdown with event draining to prevent data loss.
package metrics
