package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/realagent/homegraph/internal/listing"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/store/memory"
)

func TestRunUpdatesUnlabeledListing(t *testing.T) {
	st := memory.New()
	st.Add(listing.Listing{
		ID:       "p1",
		Latitude: 25.7617, Longitude: -80.1918,
		City: "Unknown City", State: "XX",
	})

	summary, err := New(st, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Updated != 1 {
		t.Errorf("updated = %d, want 1", summary.Updated)
	}
	got, _ := st.Get("p1")
	if got.City != "Miami" || got.State != "FL" {
		t.Errorf("listing labeled %s/%s, want Miami/FL", got.City, got.State)
	}
}

func TestRunSkipsAlreadyCorrectListing(t *testing.T) {
	st := memory.New()
	st.Add(listing.Listing{
		ID:       "p1",
		Latitude: 25.7617, Longitude: -80.1918,
		City: "Miami", State: "FL",
	})

	summary, err := New(st, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Unchanged != 1 {
		t.Errorf("unchanged = %d, want 1", summary.Unchanged)
	}
	if summary.Updated != 0 {
		t.Errorf("updated = %d, want 0", summary.Updated)
	}
}

func TestRunBucketsInvalidCoordinates(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "bad", Latitude: 95, Longitude: -80},
		listing.Listing{ID: "good", Latitude: 25.7617, Longitude: -80.1918},
	)

	summary, err := New(st, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("an invalid listing must not abort the run: %v", err)
	}

	if len(summary.InvalidCoordinates) != 1 || summary.InvalidCoordinates[0] != "bad" {
		t.Errorf("invalid bucket = %v, want [bad]", summary.InvalidCoordinates)
	}
	if summary.Updated != 1 {
		t.Errorf("updated = %d, want 1; later listings must still be processed", summary.Updated)
	}
	got, _ := st.Get("bad")
	if got.City != "" {
		t.Errorf("invalid listing was written: city = %q", got.City)
	}
}

func TestRunRetriesTransientUpdateFailure(t *testing.T) {
	st := memory.New()
	st.Add(listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918})
	st.FailUpdates("p1", 2) // recovers within the retry budget

	summary, err := New(st, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Updated != 1 {
		t.Errorf("updated = %d, want 1", summary.Updated)
	}
	if len(summary.FailedUpdates) != 0 {
		t.Errorf("failed updates = %v, want none", summary.FailedUpdates)
	}
}

func TestRunRecordsExhaustedUpdate(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918},
		listing.Listing{ID: "p2", Latitude: 30.2672, Longitude: -97.7431},
	)
	st.FailUpdates("p1", 100) // beyond retry budget

	summary, err := New(st, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("a failed update must not abort the run: %v", err)
	}

	if len(summary.FailedUpdates) != 1 || summary.FailedUpdates[0] != "p1" {
		t.Errorf("failed updates = %v, want [p1]", summary.FailedUpdates)
	}
	if summary.Updated != 1 {
		t.Errorf("updated = %d, want 1", summary.Updated)
	}
	got, _ := st.Get("p2")
	if got.City != "Austin" || got.State != "TX" {
		t.Errorf("p2 labeled %s/%s, want Austin/TX", got.City, got.State)
	}
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	st := memory.New()
	st.SetFetchError(errors.New("connection refused"))

	if _, err := New(st, nil, nil).Run(context.Background()); err == nil {
		t.Fatal("expected error when the snapshot fetch fails")
	}
}

func TestRunIsResumable(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918},
		listing.Listing{ID: "p2", Latitude: 30.2672, Longitude: -97.7431},
	)
	st.FailUpdates("p2", 100)

	r := New(st, nil, nil)
	first, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Updated != 1 || len(first.FailedUpdates) != 1 {
		t.Fatalf("first run: updated=%d failed=%v", first.Updated, first.FailedUpdates)
	}

	// The store recovers; a second pass picks up only the remaining diff.
	st.FailUpdates("p2", 0)
	second, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Updated != 1 {
		t.Errorf("second run updated = %d, want 1", second.Updated)
	}
	if second.Unchanged != 1 {
		t.Errorf("second run unchanged = %d, want 1", second.Unchanged)
	}
}

// nullCoordStore appends a row whose null coordinates decoded to zero
// values, the way PostgREST hands them back.
type nullCoordStore struct {
	*memory.Store
	nullID string
}

func (s *nullCoordStore) FetchWithCoordinates(ctx context.Context) ([]listing.Listing, error) {
	ls, err := s.Store.FetchWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}
	return append(ls, listing.Listing{ID: s.nullID}), nil
}

func TestRunExaminedMatchesBucketTotals(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "update-me", Latitude: 25.7617, Longitude: -80.1918},
		listing.Listing{ID: "correct", Latitude: 25.7617, Longitude: -80.1918, City: "Miami", State: "FL"},
		listing.Listing{ID: "invalid", Latitude: 95, Longitude: -80},
		listing.Listing{ID: "flaky", Latitude: 30.2672, Longitude: -97.7431},
	)
	st.FailUpdates("flaky", 100) // beyond retry budget

	summary, err := New(&nullCoordStore{Store: st, nullID: "null-coords"}, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Examined != 5 {
		t.Errorf("examined = %d, want 5", summary.Examined)
	}
	if summary.Updated != 1 || summary.Unchanged != 1 || summary.MissingCoordinates != 1 {
		t.Errorf("updated=%d unchanged=%d missing=%d, want 1 each",
			summary.Updated, summary.Unchanged, summary.MissingCoordinates)
	}
	if len(summary.InvalidCoordinates) != 1 || len(summary.FailedUpdates) != 1 {
		t.Errorf("invalid=%v failed=%v, want one listing each",
			summary.InvalidCoordinates, summary.FailedUpdates)
	}

	total := summary.Updated + summary.Unchanged + summary.MissingCoordinates +
		len(summary.InvalidCoordinates) + len(summary.FailedUpdates)
	if summary.Examined != total {
		t.Errorf("examined = %d, but buckets sum to %d", summary.Examined, total)
	}
}

func TestRunFeedsCollector(t *testing.T) {
	collector, err := observability.NewJobCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewJobCollector: %v", err)
	}

	st := memory.New()
	st.Add(listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918})

	r := New(st, nil, nil)
	r.Collector = collector
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("reconcile", "ok")); got != 1 {
		t.Errorf("homegraph_runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.LocationsUpdated); got != 1 {
		t.Errorf("homegraph_locations_updated_total = %v, want 1", got)
	}
}

func TestRunRecordsRunSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	st := memory.New()
	st.Add(listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918})

	if _, err := New(st, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var run sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "run.reconcile" {
			run = s
		}
	}
	if run == nil {
		t.Fatal("expected a run.reconcile span")
	}
	found := false
	for _, kv := range run.Attributes() {
		if kv.Key == "reconcile.updated" && kv.Value.AsInt64() == 1 {
			found = true
		}
	}
	if !found {
		t.Error("run span is missing reconcile.updated=1")
	}
}

func TestRunCancellationReturnsPartialSummary(t *testing.T) {
	st := memory.New()
	st.Add(listing.Listing{ID: "p1", Latitude: 25.7617, Longitude: -80.1918})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(st, nil, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if summary == nil {
		t.Fatal("cancellation must still return the partial summary")
	}
	if summary.Updated != 0 {
		t.Errorf("updated = %d, want 0 after immediate cancellation", summary.Updated)
	}
}
