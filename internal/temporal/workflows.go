// Package temporal schedules the derived-data jobs as Temporal workflows
// so runs survive worker restarts and failures retry with policy.
package temporal

import (
	"fmt"
	"time"

	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/realagent/homegraph/internal/metrics"
)

// GraphInput holds the similarity-graph workflow parameters.
type GraphInput struct {
	// Threshold overrides the configured similarity threshold when nonzero.
	Threshold float64

	// UseIndex routes candidate enumeration through the vector index
	// instead of the brute-force pair scan.
	UseIndex bool
}

// RefreshOutput holds the combined pipeline result.
type RefreshOutput struct {
	Reconcile *metrics.ReconcileSummary
	Graph     *metrics.GraphSummary
}

func activityContext(ctx workflow.Context) workflow.Context {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &sdktemporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	return workflow.WithActivityOptions(ctx, ao)
}

// ReconcileLocationsWorkflow runs one location reconciliation pass.
func ReconcileLocationsWorkflow(ctx workflow.Context) (*metrics.ReconcileSummary, error) {
	ctx = activityContext(ctx)

	var summary metrics.ReconcileSummary
	if err := workflow.ExecuteActivity(ctx, ReconcileLocationsActivity).Get(ctx, &summary); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	return &summary, nil
}

// SimilarityGraphWorkflow builds the SIMILAR_TO graph. With UseIndex set
// it first mirrors embeddings into the vector index so enumeration can
// use neighbor search.
func SimilarityGraphWorkflow(ctx workflow.Context, input GraphInput) (*metrics.GraphSummary, error) {
	ctx = activityContext(ctx)

	if input.UseIndex {
		var points int
		if err := workflow.ExecuteActivity(ctx, SyncEmbeddingsActivity).Get(ctx, &points); err != nil {
			return nil, fmt.Errorf("sync embeddings: %w", err)
		}
	}

	var summary metrics.GraphSummary
	if err := workflow.ExecuteActivity(ctx, BuildGraphActivity, input).Get(ctx, &summary); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return &summary, nil
}

// RefreshWorkflow runs the full derived-data pipeline: reconcile location
// labels first, then rebuild the similarity graph. The graph step runs
// even when reconciliation reports partial failures; both summaries are
// returned so the caller can inspect the buckets.
func RefreshWorkflow(ctx workflow.Context, input GraphInput) (*RefreshOutput, error) {
	ctx = activityContext(ctx)

	out := &RefreshOutput{}

	var reconcile metrics.ReconcileSummary
	if err := workflow.ExecuteActivity(ctx, ReconcileLocationsActivity).Get(ctx, &reconcile); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	out.Reconcile = &reconcile

	if input.UseIndex {
		var points int
		if err := workflow.ExecuteActivity(ctx, SyncEmbeddingsActivity).Get(ctx, &points); err != nil {
			return out, fmt.Errorf("sync embeddings: %w", err)
		}
	}

	var graph metrics.GraphSummary
	if err := workflow.ExecuteActivity(ctx, BuildGraphActivity, input).Get(ctx, &graph); err != nil {
		return out, fmt.Errorf("build graph: %w", err)
	}
	out.Graph = &graph

	return out, nil
}
