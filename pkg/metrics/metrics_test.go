package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

func TestObserveEstimate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEstimate(models.Estimate{
		Calculation: models.CalculationResult{AdditionalCost: 8, BudgetStatus: models.BudgetOver},
		Input:       models.EstimateInput{Subscription: "business", Model: "premium-gpt-41"},
	})

	got := testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("business", "premium-gpt-41", "over-budget"))
	if got != 1 {
		t.Errorf("calculations_total = %v, want 1", got)
	}
}

func TestObserveError(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveError("invalid_model")
	m.ObserveError("invalid_model")

	if got := testutil.ToFloat64(m.CalculationErrorsTotal.WithLabelValues("invalid_model")); got != 2 {
		t.Errorf("calculation_errors_total = %v, want 2", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEstimate(models.Estimate{})
	m.ObserveError("internal")
	m.ObserveHistoryError()
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Middleware(func(*http.Request) string { return "/api/models" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/models", "418")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "premiumcalc_http_requests_total") {
		t.Error("expected exposition to include premiumcalc_http_requests_total")
	}
}
