// Package listing defines the domain types shared by the derived-data jobs:
// property listings and the similarity edges connecting them.
package listing

// Sentinel values used when a listing's location cannot be resolved.
const (
	UnknownCity  = "Unknown"
	UnknownState = "XX"
)

// RelSimilarTo is the relationship type for embedding-similarity edges.
const RelSimilarTo = "SIMILAR_TO"

// Listing is a property record as read from the store. Only the fields the
// derived-data jobs consume are represented here; the store carries more.
type Listing struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Embedding []float32 `json:"property_embedding,omitempty"`
}

// HasCoordinates reports whether both coordinates are set. The store encodes
// a missing coordinate as zero, so either coordinate being exactly zero is
// treated as absent.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != 0 && l.Longitude != 0
}

// HasEmbedding reports whether the listing carries a non-empty vector.
func (l *Listing) HasEmbedding() bool {
	return len(l.Embedding) > 0
}

// Unlabeled reports whether the listing still carries a placeholder
// location. The legacy ingestion wrote "Unknown City" for unresolved rows.
func (l *Listing) Unlabeled() bool {
	switch l.City {
	case "", UnknownCity, "Unknown City":
		return true
	}
	return l.State == "" || l.State == UnknownState
}

// Edge is a similarity relationship between two listings. The pair is
// unordered: edges are normalized before storage so {a,b} and {b,a} are the
// same edge.
type Edge struct {
	SourceID string  `json:"source_property_id"`
	TargetID string  `json:"target_property_id"`
	Type     string  `json:"relationship_type"`
	Score    float64 `json:"similarity_score"`
}

// NewSimilarityEdge builds a SIMILAR_TO edge with the pair in canonical
// order (lexicographically smaller id first).
func NewSimilarityEdge(a, b string, score float64) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{SourceID: a, TargetID: b, Type: RelSimilarTo, Score: score}
}

// Normalize returns the edge with its pair in canonical order.
func (e Edge) Normalize() Edge {
	if e.TargetID < e.SourceID {
		e.SourceID, e.TargetID = e.TargetID, e.SourceID
	}
	return e
}
