// Package supabase implements the listing repository against the Supabase
// property table via PostgREST.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/realagent/homegraph/internal/listing"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/store"
)

const listingTable = "property"

// Repository implements store.Repository using supabase-go.
type Repository struct {
	client *supabase.Client
}

// New creates a Supabase-backed repository.
func New(url, key string) (*Repository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &Repository{client: client}, nil
}

// Ping issues a single-row select so health checks can probe PostgREST
// without pulling the table.
func (r *Repository) Ping(ctx context.Context) error {
	_, _, err := r.client.From(listingTable).
		Select("id", "exact", false).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase ping: %w", err)
	}
	return nil
}

func (r *Repository) FetchWithCoordinates(ctx context.Context) ([]listing.Listing, error) {
	_, span := observability.StartStoreSpan(ctx, "supabase", "fetch_with_coordinates")
	defer span.End()
	start := time.Now()

	data, _, err := r.client.From(listingTable).
		Select("id,latitude,longitude,city,state", "exact", false).
		Execute()
	if err != nil {
		err = fmt.Errorf("fetch listings with coordinates: %w", err)
		observability.RecordError(span, err)
		return nil, err
	}

	var rows []listing.Listing
	if err := json.Unmarshal(data, &rows); err != nil {
		err = fmt.Errorf("unmarshal listings: %w", err)
		observability.RecordError(span, err)
		return nil, err
	}

	// PostgREST null-coordinate rows come back as zero values; filter
	// here rather than composing a NOT IS NULL chain per column.
	out := rows[:0]
	for _, l := range rows {
		if l.HasCoordinates() {
			out = append(out, l)
		}
	}
	observability.RecordStoreMetrics(span, len(out), time.Since(start))
	return out, nil
}

func (r *Repository) FetchWithEmbeddings(ctx context.Context) ([]listing.Listing, error) {
	_, span := observability.StartStoreSpan(ctx, "supabase", "fetch_with_embeddings")
	defer span.End()
	start := time.Now()

	data, _, err := r.client.From(listingTable).
		Select("id,property_embedding", "exact", false).
		Execute()
	if err != nil {
		err = fmt.Errorf("fetch listings with embeddings: %w", err)
		observability.RecordError(span, err)
		return nil, err
	}

	var rows []listing.Listing
	if err := json.Unmarshal(data, &rows); err != nil {
		err = fmt.Errorf("unmarshal listings: %w", err)
		observability.RecordError(span, err)
		return nil, err
	}

	out := rows[:0]
	for _, l := range rows {
		if l.HasEmbedding() {
			out = append(out, l)
		}
	}
	observability.RecordStoreMetrics(span, len(out), time.Since(start))
	return out, nil
}

func (r *Repository) UpdateLocation(ctx context.Context, id, city, state string) error {
	_, span := observability.StartStoreSpan(ctx, "supabase", "update_location")
	defer span.End()
	start := time.Now()

	payload, err := json.Marshal(map[string]string{"city": city, "state": state})
	if err != nil {
		return fmt.Errorf("marshal location update: %w", err)
	}

	_, _, err = r.client.From(listingTable).
		Update(string(payload), "", "").
		Eq("id", id).
		Execute()
	if err != nil {
		err = fmt.Errorf("update location for %s: %w", id, err)
		observability.RecordError(span, err)
		return err
	}
	observability.RecordStoreMetrics(span, 1, time.Since(start))
	return nil
}

var _ store.Repository = (*Repository)(nil)
