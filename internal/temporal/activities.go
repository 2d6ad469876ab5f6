package temporal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realagent/homegraph/internal/graph"
	"github.com/realagent/homegraph/internal/metrics"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/reconcile"
	"github.com/realagent/homegraph/internal/similarity"
	"github.com/realagent/homegraph/internal/store"
	"github.com/realagent/homegraph/internal/vector"
)

// Dependencies holds shared resources injected into activities.
type Dependencies struct {
	Store   store.Repository
	Edges   graph.EdgeRepository
	Vector  vector.Repository           // optional; required only for indexed enumeration
	Metrics *observability.JobCollector // optional; run counters land here

	Threshold float64
	Dimension int

	Log *slog.Logger
}

var deps *Dependencies

// SetDependencies injects shared resources (called during worker setup).
func SetDependencies(d *Dependencies) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	deps = d
}

// ReconcileLocationsActivity runs one reconciliation pass over the store.
func ReconcileLocationsActivity(ctx context.Context) (*metrics.ReconcileSummary, error) {
	r := reconcile.New(deps.Store, nil, deps.Log)
	r.Collector = deps.Metrics
	return r.Run(ctx)
}

// SyncEmbeddingsActivity mirrors listing embeddings into the vector index
// and returns the number of points written.
func SyncEmbeddingsActivity(ctx context.Context) (int, error) {
	if deps.Vector == nil {
		return 0, fmt.Errorf("vector index not configured")
	}
	return vector.NewMirror(deps.Store, deps.Vector, deps.Log).Sync(ctx, deps.Dimension)
}

// BuildGraphActivity runs one similarity-graph build.
func BuildGraphActivity(ctx context.Context, input GraphInput) (*metrics.GraphSummary, error) {
	b := similarity.NewBuilder()
	b.Threshold = deps.Threshold
	b.Dimension = deps.Dimension
	if input.Threshold != 0 {
		b.Threshold = input.Threshold
	}
	if input.UseIndex {
		if deps.Vector == nil {
			return nil, fmt.Errorf("vector index not configured")
		}
		b.Source = vector.NewCandidateSource(deps.Vector, 0, deps.Log)
	}

	runner := similarity.NewRunner(deps.Store, deps.Edges, b, deps.Log)
	runner.Collector = deps.Metrics
	return runner.Run(ctx)
}
