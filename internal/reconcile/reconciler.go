// Package reconcile drives the batch pass that fixes listing location
// labels: it resolves each listing's coordinates and writes back the
// city/state only where the stored value differs.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/realagent/homegraph/internal/geo"
	"github.com/realagent/homegraph/internal/metrics"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/store"
)

// Reconciler orchestrates one reconciliation pass. It holds no state
// between runs; re-running after a partial failure simply re-evaluates
// every listing and re-issues the remaining diffs.
type Reconciler struct {
	store    store.Repository
	resolver *geo.Resolver
	log      *slog.Logger

	// Collector receives the run counters when set.
	Collector *observability.JobCollector
}

// New creates a Reconciler. A nil resolver means the canonical tables; a
// nil logger means slog.Default.
func New(st store.Repository, resolver *geo.Resolver, log *slog.Logger) *Reconciler {
	if resolver == nil {
		resolver = geo.NewDefaultResolver()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{store: st, resolver: resolver, log: log}
}

// Run fetches the listing snapshot and reconciles every listing in it.
//
// Only the snapshot fetch is fatal. Per-listing problems are bucketed in
// the summary: invalid coordinates are recorded and skipped, and an update
// that still fails after retries is recorded and skipped. Cancellation
// between items returns the partial summary alongside the context error;
// everything already written stays valid.
func (r *Reconciler) Run(ctx context.Context) (_ *metrics.ReconcileSummary, runErr error) {
	summary := metrics.NewReconcileSummary(geo.TableVersion)
	ctx, span := observability.StartRunSpan(ctx, "reconcile", summary.RunID)
	defer func() {
		summary.Finish()
		observability.RecordReconcileResult(span, summary.Examined, summary.Updated,
			summary.Unchanged, len(summary.InvalidCoordinates), len(summary.FailedUpdates))
		observability.RecordError(span, runErr)
		span.End()
		r.Collector.ObserveReconcile(summary.Updated, summary.Unchanged,
			len(summary.InvalidCoordinates), len(summary.FailedUpdates),
			summary.Duration.Seconds(), runErr)
	}()

	listings, err := store.WithRetry(ctx, func() ([]listingSnapshot, error) {
		ls, err := r.store.FetchWithCoordinates(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]listingSnapshot, len(ls))
		for i, l := range ls {
			out[i] = listingSnapshot{l.ID, l.Latitude, l.Longitude, l.City, l.State}
		}
		return out, nil
	})
	if err != nil {
		runErr = fmt.Errorf("fetch listing snapshot: %w", err)
		return nil, runErr
	}

	r.log.Info("reconciliation started",
		"run_id", summary.RunID,
		"listings", len(listings),
		"table_version", summary.TableVersion)

	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			runErr = err
			return summary, runErr
		}
		summary.Examined++

		// The store is asked for listings with coordinates, but a null
		// column decodes as zero; don't let those resolve to open ocean.
		if l.Latitude == 0 || l.Longitude == 0 {
			summary.MissingCoordinates++
			continue
		}

		loc, err := r.resolver.Resolve(l.Latitude, l.Longitude)
		if err != nil {
			var invalid *geo.InvalidCoordinateError
			if errors.As(err, &invalid) {
				summary.InvalidCoordinates = append(summary.InvalidCoordinates, l.ID)
				r.log.Warn("invalid coordinates", "listing_id", l.ID,
					"lat", l.Latitude, "lng", l.Longitude)
				continue
			}
			runErr = fmt.Errorf("resolve %s: %w", l.ID, err)
			return summary, runErr
		}

		if loc.City == l.City && loc.State == l.State {
			summary.Unchanged++
			continue
		}

		_, err = store.WithRetry(ctx, func() (struct{}, error) {
			return struct{}{}, r.store.UpdateLocation(ctx, l.ID, loc.City, loc.State)
		})
		if err != nil {
			summary.FailedUpdates = append(summary.FailedUpdates, l.ID)
			r.log.Error("location update failed", "listing_id", l.ID, "error", err)
			continue
		}

		summary.Updated++
		r.log.Debug("location updated", "listing_id", l.ID,
			"from_city", l.City, "from_state", l.State,
			"to_city", loc.City, "to_state", loc.State)
	}

	r.log.Info("reconciliation finished",
		"run_id", summary.RunID,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"invalid", len(summary.InvalidCoordinates),
		"failed", len(summary.FailedUpdates))
	return summary, nil
}

// listingSnapshot is the slice of listing fields the pass needs; fetching
// narrows early so retries re-read a small payload.
type listingSnapshot struct {
	ID        string
	Latitude  float64
	Longitude float64
	City      string
	State     string
}
