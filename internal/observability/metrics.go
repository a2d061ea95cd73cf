package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

const resultSuccess = "success"

// Metrics holds the Prometheus collectors of one service instance.
type Metrics struct {
	registry       *prometheus.Registry
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpErrors     *prometheus.CounterVec
	teamOps        *prometheus.CounterVec
	teamOpDuration *prometheus.HistogramVec
	matchDecisions *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by path/method/code.",
			},
			[]string{"path", "method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests by path/method/code.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method", "code"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Rendered API errors by path/method/error code.",
			},
			[]string{"path", "method", "error_code"},
		),
		teamOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "team_operations_total",
				Help: "Team registry and matcher operations by op and result.",
			},
			[]string{"op", "result"},
		),
		teamOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "team_operation_duration_seconds",
				Help:    "Duration of team registry and matcher operations by op and result.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "result"},
		),
		matchDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_decisions_total",
				Help: "Match session decisions by kind.",
			},
			[]string{"decision"},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		m.teamOps,
		m.teamOpDuration,
		m.matchDecisions,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(path, method, code).Inc()
	m.httpDuration.WithLabelValues(path, method, code).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}

// ObserveTeamOp records the outcome of a service operation. Failed
// operations are labelled with their error code.
func (m *Metrics) ObserveTeamOp(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = apperrors.ToDomainError(err).Code
	}
	m.teamOps.WithLabelValues(op, result).Inc()
	m.teamOpDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

// RecordMatchDecision counts match, skip and reset steps.
func (m *Metrics) RecordMatchDecision(decision string) {
	if m == nil {
		return
	}
	m.matchDecisions.WithLabelValues(decision).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
