// Package metrics exposes Prometheus instrumentation for the dispatch engine.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	dispatchOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_operations_total",
			Help: "Total number of dispatch engine operations",
		},
		[]string{"operation", "outcome"},
	)

	technicianAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "technician_assignments_total",
			Help: "Total number of technician assignments",
		},
		[]string{"target", "reassignment"},
	)

	technicianReleasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "technician_releases_total",
			Help: "Total number of technician releases back to the free pool",
		},
		[]string{"reason"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency. The route template (not the
// raw URL) is used as the path label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// --- Business metric helpers ---

// RecordDispatchOperation records the outcome of a dispatch operation.
func RecordDispatchOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "rejected"
	}
	dispatchOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordAssignment records a technician assignment to an order or request.
func RecordAssignment(target string, reassignment bool) {
	technicianAssignmentsTotal.WithLabelValues(target, strconv.FormatBool(reassignment)).Inc()
}

// RecordRelease records a technician returning to the free pool.
func RecordRelease(reason string) {
	technicianReleasesTotal.WithLabelValues(reason).Inc()
}
