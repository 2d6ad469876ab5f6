// Package vector mirrors listing embeddings into a vector index and uses
// it to narrow the candidate pairs the similarity builder compares.
package vector

import "context"

// Point is a listing embedding stored in the vector index. The ID is the
// listing id in the primary store.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]string
}

// Neighbor is a single match from a similarity search.
type Neighbor struct {
	ID    string
	Score float32
}

// Repository provides vector storage and similarity search.
type Repository interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert inserts or updates points.
	Upsert(ctx context.Context, points []Point) error
	// Search finds the top-k nearest neighbors of a vector.
	Search(ctx context.Context, vector []float32, topK int) ([]Neighbor, error)
	// Close releases resources.
	Close() error
}
