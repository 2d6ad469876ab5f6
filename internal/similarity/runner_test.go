package similarity

import (
	"context"
	"errors"
	"math"
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

func TestRunnerFeedsCollector(t *testing.T) {
	collector, err := observability.NewJobCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewJobCollector: %v", err)
	}

	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
	)

	r := NewRunner(st, st, nil, nil)
	r.Collector = collector
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := testutil.ToFloat64(collector.RunsTotal.WithLabelValues("graph", "ok")); got != 1 {
		t.Errorf("homegraph_runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.EdgesCreated); got != 1 {
		t.Errorf("homegraph_edges_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Comparisons); got != 1 {
		t.Errorf("homegraph_comparisons_total = %v, want 1", got)
	}
}

func TestRunnerRecordsRunSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
	)

	if _, err := NewRunner(st, st, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var run sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "run.graph" {
			run = s
		}
	}
	if run == nil {
		t.Fatal("expected a run.graph span")
	}
	found := false
	for _, kv := range run.Attributes() {
		if kv.Key == "graph.edges_created" && kv.Value.AsInt64() == 1 {
			found = true
		}
	}
	if !found {
		t.Error("run span is missing graph.edges_created=1")
	}
}

func TestRunnerCreatesSingleEdge(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
	)

	r := NewRunner(st, st, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.EdgesCreated != 1 {
		t.Errorf("edges created = %d, want 1", summary.EdgesCreated)
	}
	edges := st.Edges()
	if len(edges) != 1 {
		t.Fatalf("stored edges = %d, want 1", len(edges))
	}
	if math.Abs(edges[0].Score-1.0) > 1e-6 {
		t.Errorf("edge score = %v, want ~1.0", edges[0].Score)
	}
}

func TestRunnerIdempotent(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
		listing.Listing{ID: "c", Embedding: vec384(50)},
	)

	r := NewRunner(st, st, nil, nil)
	first, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	created := first.EdgesCreated

	second, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.EdgesCreated != 0 {
		t.Errorf("second run created %d edges, want 0", second.EdgesCreated)
	}
	if second.EdgesDuplicate != created {
		t.Errorf("second run duplicates = %d, want %d", second.EdgesDuplicate, created)
	}

	n := 3
	if got := len(st.Edges()); got > n*(n-1)/2 {
		t.Errorf("edge count %d exceeds n(n-1)/2 = %d", got, n*(n-1)/2)
	}
}

func TestRunnerRecordsFailedInserts(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
	)
	st.FailInserts("a", "b", 100) // beyond retry budget

	r := NewRunner(st, st, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("per-edge failures must not abort the run: %v", err)
	}
	if summary.EdgesCreated != 0 {
		t.Errorf("edges created = %d, want 0", summary.EdgesCreated)
	}
	if len(summary.FailedInserts) != 1 || summary.FailedInserts[0] != "a-b" {
		t.Errorf("failed inserts = %v, want [a-b]", summary.FailedInserts)
	}
}

func TestRunnerInsertRetriesTransientFailure(t *testing.T) {
	st := memory.New()
	st.Add(
		listing.Listing{ID: "a", Embedding: vec384(1)},
		listing.Listing{ID: "b", Embedding: vec384(1)},
	)
	st.FailInserts("a", "b", 2) // recovers within the retry budget

	r := NewRunner(st, st, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.EdgesCreated != 1 {
		t.Errorf("edges created = %d, want 1", summary.EdgesCreated)
	}
	if len(summary.FailedInserts) != 0 {
		t.Errorf("failed inserts = %v, want none", summary.FailedInserts)
	}
}

func TestRunnerFetchFailureIsFatal(t *testing.T) {
	st := memory.New()
	st.SetFetchError(errors.New("connection refused"))

	r := NewRunner(st, st, nil, nil)
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error when the snapshot fetch fails")
	}
}

func TestRunnerEmptySnapshot(t *testing.T) {
	st := memory.New()
	st.Add(listing.Listing{ID: "a"}) // no embedding: excluded from the snapshot

	r := NewRunner(st, st, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.EdgesCreated != 0 || summary.Comparisons != 0 {
		t.Errorf("empty snapshot produced work: %+v", summary)
	}
}
