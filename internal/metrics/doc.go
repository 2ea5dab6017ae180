// Package metrics provides real-time metrics collection for the cluster client.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Request counts per instance
//   - Instance selection frequencies
//   - Demotions and re-admissions driven by failover
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the dispatch path. Events are emitted with non-blocking semantics to prevent
// performance degradation under load.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	// Emit events during dispatch
//	collector.Emit(metrics.Event{
//		Type:       metrics.EventResponseCompleted,
//		Instance:   "http://localhost:8086",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//	})
//
//	// Get metrics snapshot
//	snapshot := collector.Snapshot()
//
// The package provides thread-safe metrics storage using sync.RWMutex and supports
// graceful shutdown with event draining to prevent data loss.
package metrics
