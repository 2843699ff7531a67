package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors shared by the API and worker processes.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PaymentCallsTotal   *prometheus.CounterVec
	WebhookEventsTotal  *prometheus.CounterVec
	WorkerRunsTotal     *prometheus.CounterVec
	WorkerRunDuration   *prometheus.HistogramVec
	RateLimitedRequests *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorhub_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creatorhub_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		PaymentCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorhub_payment_gateway_calls_total",
				Help: "Total number of payment processor calls",
			},
			[]string{"operation", "outcome"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorhub_webhook_events_total",
				Help: "Total number of payment webhook events by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		WorkerRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorhub_worker_runs_total",
				Help: "Total number of scheduled worker runs",
			},
			[]string{"job", "outcome"},
		),
		WorkerRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creatorhub_worker_run_duration_seconds",
				Help:    "Scheduled worker run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		RateLimitedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorhub_rate_limited_requests_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"scope"},
		),
	}
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PaymentCallsTotal,
		m.WebhookEventsTotal,
		m.WorkerRunsTotal,
		m.WorkerRunDuration,
		m.RateLimitedRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method string, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePaymentCall(operation string, err error) {
	if m == nil {
		return
	}
	m.PaymentCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) ObserveWebhook(eventType string, result string) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) ObserveWorkerRun(job string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.WorkerRunsTotal.WithLabelValues(job, outcome(err)).Inc()
	m.WorkerRunDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRateLimited(scope string) {
	if m == nil {
		return
	}
	m.RateLimitedRequests.WithLabelValues(scope).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
