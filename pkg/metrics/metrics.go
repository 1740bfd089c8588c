// Package metrics exposes Prometheus collectors for the HTTP API and the
// calculator front ends.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CalculationsTotal      *prometheus.CounterVec
	CalculationErrorsTotal *prometheus.CounterVec
	AdditionalCost         *prometheus.HistogramVec

	HistoryWriteErrorsTotal prometheus.Counter
}

// New creates and registers all collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premiumcalc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "premiumcalc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1},
			},
			[]string{"method", "route"},
		),
		CalculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premiumcalc_calculations_total",
				Help: "Successful calculations by plan, model and budget status",
			},
			[]string{"subscription", "model", "budget_status"},
		),
		CalculationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premiumcalc_calculation_errors_total",
				Help: "Rejected or failed calculations by error kind",
			},
			[]string{"kind"},
		),
		AdditionalCost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "premiumcalc_additional_cost_usd",
				Help:    "Estimated overage cost in USD",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"subscription"},
		),
		HistoryWriteErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "premiumcalc_history_write_errors_total",
				Help: "Estimates that could not be written to the history store",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CalculationsTotal,
		m.CalculationErrorsTotal,
		m.AdditionalCost,
		m.HistoryWriteErrorsTotal,
	)

	return m
}

// ObserveEstimate records a successful calculation.
func (m *Metrics) ObserveEstimate(e models.Estimate) {
	if m == nil {
		return
	}
	m.CalculationsTotal.WithLabelValues(e.Input.Subscription, e.Input.Model, string(e.Calculation.BudgetStatus)).Inc()
	m.AdditionalCost.WithLabelValues(e.Input.Subscription).Observe(e.Calculation.AdditionalCost)
}

// ObserveError records a failed calculation by kind.
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.CalculationErrorsTotal.WithLabelValues(kind).Inc()
}

// ObserveHistoryError records a failed history write.
func (m *Metrics) ObserveHistoryError() {
	if m == nil {
		return
	}
	m.HistoryWriteErrorsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests. route maps a request to a low-cardinality
// label, normally the matched route template.
func (m *Metrics) Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			label := route(r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(rw.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
		})
	}
}
