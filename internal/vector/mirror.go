package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realagent/homegraph/internal/store"
)

const mirrorBatchSize = 128

// Mirror copies listing embeddings from the primary store into the vector
// index so candidate search can run against Qdrant instead of scanning
// every pair.
type Mirror struct {
	store store.Repository
	repo  Repository
	log   *slog.Logger
}

// NewMirror creates a Mirror. A nil logger means slog.Default.
func NewMirror(st store.Repository, repo Repository, log *slog.Logger) *Mirror {
	if log == nil {
		log = slog.Default()
	}
	return &Mirror{store: st, repo: repo, log: log}
}

// Sync fetches every listing with an embedding and upserts it into the
// index in batches. Upserts are idempotent: re-syncing overwrites points
// in place. Returns the number of points written.
func (m *Mirror) Sync(ctx context.Context, dimension int) (int, error) {
	if err := m.repo.EnsureCollection(ctx, dimension); err != nil {
		return 0, err
	}

	listings, err := store.WithRetry(ctx, func() ([]Point, error) {
		ls, err := m.store.FetchWithEmbeddings(ctx)
		if err != nil {
			return nil, err
		}
		points := make([]Point, 0, len(ls))
		for _, l := range ls {
			if len(l.Embedding) != dimension {
				m.log.Warn("skipping listing with wrong embedding dimension",
					"listing_id", l.ID, "got", len(l.Embedding), "want", dimension)
				continue
			}
			points = append(points, Point{ID: l.ID, Vector: l.Embedding})
		}
		return points, nil
	})
	if err != nil {
		return 0, fmt.Errorf("fetch embedding snapshot: %w", err)
	}

	written := 0
	for start := 0; start < len(listings); start += mirrorBatchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := min(start+mirrorBatchSize, len(listings))
		if err := m.repo.Upsert(ctx, listings[start:end]); err != nil {
			return written, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		written += end - start
	}

	m.log.Info("embedding mirror synced", "points", written)
	return written, nil
}
