package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// ERP gateway metrics
	ERPRequestsTotal *prometheus.CounterVec

	// Sync metrics
	LocalFallbacksTotal *prometheus.CounterVec
	ResyncsTotal        *prometheus.CounterVec

	// Notification metrics
	NotificationsTotal *prometheus.CounterVec

	// Auth metrics
	LoginAttempts *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ERPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erp_requests_total",
				Help: "Total number of requests to the remote document store",
			},
			[]string{"method", "outcome"},
		),
		LocalFallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "local_fallbacks_total",
				Help: "Total number of writes that fell back to the local repository",
			},
			[]string{"entity"},
		),
		ResyncsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resyncs_total",
				Help: "Total number of explicit resync attempts for locally pending records",
			},
			[]string{"entity", "outcome"},
		),
		NotificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of best-effort notifications dispatched",
			},
			[]string{"sink", "outcome"},
		),
		LoginAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw path

			err := next(c)

			status := c.Response().Status
			duration := time.Since(start).Seconds()

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, strconv.Itoa(status)).Observe(duration)

			return err
		}
	}
}

// RecordLocalFallback increments the local fallback counter for an entity
func (m *Metrics) RecordLocalFallback(entity string) {
	m.LocalFallbacksTotal.WithLabelValues(entity).Inc()
}

// RecordResync records an explicit resync attempt
func (m *Metrics) RecordResync(entity string, success bool) {
	outcome := "failed"
	if success {
		outcome = "success"
	}
	m.ResyncsTotal.WithLabelValues(entity, outcome).Inc()
}

// RecordLoginAttempt increments login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}
