package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-roleform/internal/metrics"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/sessions/{id}", "418"))
	if got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %v", got)
	}
}

func TestRecorders(t *testing.T) {
	m := metrics.New()
	m.RecordChange("select", nil)
	m.RecordChange("checkbox", errors.New("hidden"))
	m.RecordChange("", nil)
	m.RecordSubmit(metrics.OutcomeRejected)
	m.RecordExport()
	m.SetSessions(3)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"select ok", testutil.ToFloat64(m.ChangesTotal.WithLabelValues("select", metrics.OutcomeOK)), 1},
		{"checkbox rejected", testutil.ToFloat64(m.ChangesTotal.WithLabelValues("checkbox", metrics.OutcomeRejected)), 1},
		{"unknown kind", testutil.ToFloat64(m.ChangesTotal.WithLabelValues("unknown", metrics.OutcomeOK)), 1},
		{"submit rejected", testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues(metrics.OutcomeRejected)), 1},
		{"exports", testutil.ToFloat64(m.ExportsTotal), 1},
		{"sessions", testutil.ToFloat64(m.SessionsActive), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestHandler_ExposesNamespace(t *testing.T) {
	m := metrics.New()
	m.RecordExport()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "roleform_exports_total 1") {
		t.Fatalf("metrics output missing exports counter:\n%s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *metrics.Metrics
	m.RecordChange("select", nil)
	m.RecordSubmit(metrics.OutcomeOK)
	m.RecordExport()
	m.SetSessions(1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if h := m.Middleware(next); h == nil {
		t.Fatal("nil metrics must pass requests through")
	}
}
