// Package store defines the listing repository consumed by the batch
// drivers. Implementations live in subpackages; the drivers only see this
// interface so they can run against the in-memory fake in tests.
package store

import (
	"context"
	"errors"

	"github.com/realagent/homegraph/internal/listing"
)

// ErrUnavailable marks a transient store failure. Callers retry these with
// backoff and skip the item if retries are exhausted.
var ErrUnavailable = errors.New("store unavailable")

// Repository provides the listing operations the derived-data jobs need.
type Repository interface {
	// FetchWithCoordinates returns listings carrying coordinates, with at
	// least id, latitude, longitude, city, and state populated.
	FetchWithCoordinates(ctx context.Context) ([]listing.Listing, error)

	// FetchWithEmbeddings returns listings carrying embedding vectors,
	// with at least id and embedding populated.
	FetchWithEmbeddings(ctx context.Context) ([]listing.Listing, error)

	// UpdateLocation sets a listing's city and state.
	UpdateLocation(ctx context.Context, id, city, state string) error
}
