package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReconcileRecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewJobCollector(reg)
	if err != nil {
		t.Fatalf("NewJobCollector: %v", err)
	}

	collector.ObserveReconcile(5, 10, 2, 1, 0.5, nil)

	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("reconcile", "ok")); got != 1 {
		t.Fatalf("homegraph_runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.LocationsUpdated); got != 5 {
		t.Fatalf("homegraph_locations_updated_total = %v, want 5", got)
	}
	if got := testutil.ToFloat64(collector.InvalidCoordinates); got != 2 {
		t.Fatalf("homegraph_invalid_coordinates_total = %v, want 2", got)
	}
}

func TestObserveGraphBuildRecordsOutcomeLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewJobCollector(reg)
	if err != nil {
		t.Fatalf("NewJobCollector: %v", err)
	}

	collector.ObserveGraphBuild(10, 3, 2, 0, 0.1, nil)
	collector.ObserveGraphBuild(0, 0, 0, 0, 0.1, errors.New("boom"))

	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("graph", "ok")); got != 1 {
		t.Fatalf("graph ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("graph", "error")); got != 1 {
		t.Fatalf("graph error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.EdgesCreated); got != 3 {
		t.Fatalf("homegraph_edges_created_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.EdgesDuplicate); got != 2 {
		t.Fatalf("homegraph_edges_duplicate_total = %v, want 2", got)
	}
}

func TestMetricsHandlerExposesJobCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewJobCollector(reg)
	if err != nil {
		t.Fatalf("NewJobCollector: %v", err)
	}
	collector.ObserveReconcile(1, 1, 0, 0, 0.2, nil)
	collector.ObserveGraphBuild(1, 1, 0, 0, 0.2, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"homegraph_runs_total",
		"homegraph_run_duration_seconds",
		"homegraph_locations_updated_total",
		"homegraph_edges_created_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNewJobCollectorIdempotentRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewJobCollector(reg); err != nil {
		t.Fatalf("first NewJobCollector: %v", err)
	}
	if _, err := NewJobCollector(reg); err != nil {
		t.Fatalf("second NewJobCollector on same registry: %v", err)
	}
}
