// Package metrics provides Prometheus metrics collection for the packing slip service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector registered by this package.
const Namespace = "packing"

// unmatchedRoute labels requests that matched no route, so scanners cannot
// grow the path label without bound.
const unmatchedRoute = "unmatched"

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

// HTTP
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds by route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status_code"})

	HTTPRequestTotal     = counterVec("http", "requests_total", "HTTP requests by route template.", "method", "route", "status_code")
	RequestTimeoutsTotal = counterVec("http", "request_timeouts_total", "Requests answered with 504 by the timeout middleware.", "route")
	RateLimitedTotal     = counterVec("http", "rate_limited_total", "Requests rejected by a rate limiter.", "scope")
)

// Packing
var (
	PackingSlipGenerationsTotal = counterVec("slip", "generations_total", "Packing slip generations by outcome code.", "result")

	PackingSlipGenerationDuration = histogram("slip", "generation_duration_seconds",
		"End-to-end packing slip generation duration in seconds.",
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1})

	PackingSlipBoxes = histogram("slip", "boxes",
		"Boxes per generated packing slip.",
		[]float64{1, 2, 5, 10, 25, 50, 100, 250, 1000})

	BoxCalculationsTotal = counterVec("calculator", "requests_total", "Stateless box calculations by status.", "status")
)

// Invoices, events and the audit trail
var (
	InvoiceTransitionsTotal = counterVec("invoice", "transitions_total",
		"Guarded invoice status transitions by transition and result.", "transition", "result")

	StaleReservationsReleasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "invoice",
		Name:      "stale_reservations_released_total",
		Help:      "Reservations released by the sweeper after their TTL.",
	})

	EventsPublishedTotal = counterVec("events", "published_total", "Domain events by topic and result.", "topic", "result")
	AuditEntriesTotal    = counterVec("audit", "entries_total", "Audit log entries by outcome: written, failed or dropped.", "result")
)

// Storage
var CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: Namespace,
	Subsystem: "storage",
	Name:      "circuit_breaker_state",
	Help:      "Storage circuit breaker state: 0 closed, 1 open, 2 half-open.",
}, []string{"breaker"})

// Slip cache
var (
	CacheOperationsTotal = counterVec("slip_cache", "operations_total", "Slip cache operations by result.", "operation", "result")
	CacheSize            = gauge("slip_cache", "entries", "Packing slips currently cached.")
	CacheCapacity        = gauge("slip_cache", "capacity", "Maximum number of cached packing slips.")
)

// PrometheusMiddleware counts and times every request by route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}

func RecordRequestTimeout(route string) {
	RequestTimeoutsTotal.WithLabelValues(route).Inc()
}

func RecordRateLimited(scope string) {
	RateLimitedTotal.WithLabelValues(scope).Inc()
}

// RecordPackingSlipGeneration records one generation attempt. boxes is only
// observed for successful generations.
func RecordPackingSlipGeneration(duration time.Duration, result string, boxes int) {
	PackingSlipGenerationDuration.Observe(duration.Seconds())
	PackingSlipGenerationsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		PackingSlipBoxes.Observe(float64(boxes))
	}
}

func RecordBoxCalculation(status string) {
	BoxCalculationsTotal.WithLabelValues(status).Inc()
}

func RecordInvoiceTransition(transition, result string) {
	InvoiceTransitionsTotal.WithLabelValues(transition, result).Inc()
}

func RecordStaleReservationsReleased(n int) {
	StaleReservationsReleasedTotal.Add(float64(n))
}

func RecordEventPublished(topic, result string) {
	EventsPublishedTotal.WithLabelValues(topic, result).Inc()
}

func RecordAuditEntries(result string, n int) {
	AuditEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation matches cache.Observer.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
