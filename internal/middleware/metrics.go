package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	slotAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "name_race_slot_allocations_total",
			Help: "Total number of name race slot allocation batches",
		},
		[]string{"status"},
	)

	raceCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "name_race_completions_total",
			Help: "Total number of finished name race runs",
		},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wall_submissions_total",
			Help: "Total number of wall submissions",
		},
		[]string{"table", "status"},
	)

	realtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_clients",
			Help: "Number of connected change feed clients",
		},
	)
)

// MetricsMiddleware collects Prometheus metrics for HTTP requests.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordSlotAllocation counts one allocation batch.
func RecordSlotAllocation(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	slotAllocationsTotal.WithLabelValues(status).Inc()
}

// RecordRaceCompletion counts one finished run.
func RecordRaceCompletion() {
	raceCompletionsTotal.Inc()
}

// RecordSubmission counts one wall submission attempt per backing table.
func RecordSubmission(table string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	submissionsTotal.WithLabelValues(table, status).Inc()
}

// SetRealtimeClients updates the connected change feed client gauge.
func SetRealtimeClients(n int) {
	realtimeClients.Set(float64(n))
}
