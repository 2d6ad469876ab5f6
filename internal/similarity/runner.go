package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realagent/homegraph/internal/graph"
	"github.com/realagent/homegraph/internal/listing"
	"github.com/realagent/homegraph/internal/metrics"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/store"
)

// Runner drives one similarity-graph build: fetch the embedding snapshot,
// compute qualifying edges, and write them through the edge repository.
type Runner struct {
	store   store.Repository
	edges   graph.EdgeRepository
	builder *Builder
	log     *slog.Logger

	// Collector receives the run counters when set.
	Collector *observability.JobCollector
}

// NewRunner creates a Runner. A nil builder means NewBuilder() defaults; a
// nil logger means slog.Default.
func NewRunner(st store.Repository, edges graph.EdgeRepository, b *Builder, log *slog.Logger) *Runner {
	if b == nil {
		b = NewBuilder()
	}
	if log == nil {
		log = slog.Default()
	}
	b.Logger = log
	return &Runner{store: st, edges: edges, builder: b, log: log}
}

// Run executes one build pass. Only the snapshot fetch is fatal; a
// per-edge insert that still fails after retries is recorded in the
// summary and the run continues. Duplicate edges are counted, not errors,
// so re-running over an unchanged snapshot creates nothing new.
func (r *Runner) Run(ctx context.Context) (_ *metrics.GraphSummary, runErr error) {
	summary := metrics.NewGraphSummary(r.builder.Threshold)
	ctx, span := observability.StartRunSpan(ctx, "graph", summary.RunID)
	defer func() {
		summary.Finish()
		observability.RecordGraphResult(span, summary.Comparisons, summary.EdgesCreated,
			summary.EdgesDuplicate, len(summary.FailedInserts))
		observability.RecordError(span, runErr)
		span.End()
		r.Collector.ObserveGraphBuild(summary.Comparisons, summary.EdgesCreated,
			summary.EdgesDuplicate, len(summary.FailedInserts),
			summary.Duration.Seconds(), runErr)
	}()

	listings, err := store.WithRetry(ctx, func() ([]listing.Listing, error) {
		return r.store.FetchWithEmbeddings(ctx)
	})
	if err != nil {
		runErr = fmt.Errorf("fetch embedding snapshot: %w", err)
		return nil, runErr
	}

	summary.Listings = len(listings)
	r.log.Info("graph build started",
		"run_id", summary.RunID,
		"listings", len(listings),
		"threshold", r.builder.Threshold)

	proposed, stats := r.builder.BuildEdges(listings)
	summary.SkippedMissingEmbedding = stats.SkippedMissingEmbedding
	summary.SkippedDimensionMismatch = stats.SkippedDimensionMismatch
	summary.Comparisons = stats.Comparisons

	for _, e := range proposed {
		if err := ctx.Err(); err != nil {
			runErr = err
			return summary, runErr
		}

		outcome, err := store.WithRetry(ctx, func() (graph.InsertOutcome, error) {
			return r.edges.InsertEdge(ctx, e)
		})
		if err != nil {
			pair := e.SourceID + "-" + e.TargetID
			summary.FailedInserts = append(summary.FailedInserts, pair)
			r.log.Error("edge insert failed", "pair", pair, "error", err)
			continue
		}

		switch outcome {
		case graph.OutcomeCreated:
			summary.EdgesCreated++
		case graph.OutcomeDuplicate:
			summary.EdgesDuplicate++
		}
	}

	r.log.Info("graph build finished",
		"run_id", summary.RunID,
		"comparisons", summary.Comparisons,
		"created", summary.EdgesCreated,
		"duplicate", summary.EdgesDuplicate,
		"failed", len(summary.FailedInserts))
	return summary, nil
}
