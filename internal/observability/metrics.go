// Package observability exposes Prometheus metrics for the pricing service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BulkRowsSubmitted counts parameter sets submitted to the batch updater.
	BulkRowsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_bulk_rows_submitted_total",
			Help: "Rows submitted to bulk update batches, by target table",
		},
		[]string{"table"},
	)

	// BulkBatches counts bulk update batches by outcome.
	BulkBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_bulk_batches_total",
			Help: "Bulk update batches processed, by target table and outcome",
		},
		[]string{"table", "status"},
	)

	// BulkZeroMatchRows counts update rows whose identifier matched nothing.
	BulkZeroMatchRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_bulk_zero_match_rows_total",
			Help: "Bulk update rows whose target id matched no existing row",
		},
		[]string{"table"},
	)

	// RequestDuration observes HTTP request latency by route and status class.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register installs all collectors on the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(
		BulkRowsSubmitted,
		BulkBatches,
		BulkZeroMatchRows,
		RequestDuration,
	)
}

// Handler returns the Prometheus exposition handler for mounting on a router.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method, path, statusClass(status)).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
