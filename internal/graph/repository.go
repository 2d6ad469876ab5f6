// Package graph defines edge storage for the listing similarity graph.
package graph

import (
	"context"

	"github.com/realagent/homegraph/internal/listing"
)

// InsertOutcome is the result of an idempotent edge insert.
type InsertOutcome int

const (
	// OutcomeCreated means the edge did not exist and was written.
	OutcomeCreated InsertOutcome = iota
	// OutcomeDuplicate means the edge already existed; nothing changed.
	OutcomeDuplicate
)

// EdgeRepository persists similarity edges.
type EdgeRepository interface {
	// InsertEdge writes an edge if its unordered pair does not already
	// have one of the same relationship type. Inserting an existing edge
	// is a no-op reported as OutcomeDuplicate, never an error.
	InsertEdge(ctx context.Context, e listing.Edge) (InsertOutcome, error)

	// CountEdges returns the number of stored edges of the given type.
	CountEdges(ctx context.Context, relType string) (int64, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
