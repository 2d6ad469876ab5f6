// Package similarity builds the SIMILAR_TO graph: it compares listing
// embedding vectors pairwise and proposes an edge for every pair whose
// cosine similarity clears the configured threshold.
package similarity

import (
	"log/slog"

	"github.com/realagent/homegraph/internal/listing"
)

const (
	// DefaultThreshold is the minimum similarity for an edge. Strictly
	// greater-than: a pair sitting exactly on the threshold gets no edge.
	DefaultThreshold = 0.7

	// DefaultDimension matches the all-MiniLM-L6-v2 embeddings the
	// ingestion pipeline produces.
	DefaultDimension = 384
)

// Pair is a pair of indexes into the candidate slice.
type Pair struct {
	I int
	J int
}

// PairSource enumerates the candidate pairs to compare. The brute-force
// source visits every unordered pair once (O(n²)); an indexed source may
// return fewer pairs but must never return (i,i) or a pair twice.
type PairSource interface {
	Pairs(candidates []listing.Listing) []Pair
}

// BruteForcePairs enumerates all unordered pairs. This is the documented
// default for the small-to-moderate listing counts the worker handles.
type BruteForcePairs struct{}

func (BruteForcePairs) Pairs(candidates []listing.Listing) []Pair {
	n := len(candidates)
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// Stats describes one BuildEdges pass.
type Stats struct {
	Candidates               int `json:"candidates"`
	SkippedMissingEmbedding  int `json:"skipped_missing_embedding"`
	SkippedDimensionMismatch int `json:"skipped_dimension_mismatch"`
	Comparisons              int `json:"comparisons"`
	Proposed                 int `json:"proposed"`
}

// Builder computes similarity edges over an in-memory listing snapshot.
type Builder struct {
	// Threshold is the strict lower bound for edge creation, in [0,1).
	Threshold float64

	// Dimension is the expected embedding length. Zero disables the check.
	Dimension int

	// Source enumerates candidate pairs; nil means brute force.
	Source PairSource

	Logger *slog.Logger
}

// NewBuilder returns a Builder with the default threshold, dimension, and
// brute-force enumeration.
func NewBuilder() *Builder {
	return &Builder{
		Threshold: DefaultThreshold,
		Dimension: DefaultDimension,
		Source:    BruteForcePairs{},
	}
}

// BuildEdges compares every candidate pair and returns the edges whose
// similarity strictly exceeds the threshold, plus counts for the run
// summary. Listings without a usable embedding are skipped silently; a
// vector of the wrong length is skipped too but counted on its own, since
// it means upstream data drifted.
func (b *Builder) BuildEdges(listings []listing.Listing) ([]listing.Edge, Stats) {
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}
	source := b.Source
	if source == nil {
		source = BruteForcePairs{}
	}

	var stats Stats
	candidates := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		switch {
		case !l.HasEmbedding():
			stats.SkippedMissingEmbedding++
		case b.Dimension > 0 && len(l.Embedding) != b.Dimension:
			stats.SkippedDimensionMismatch++
			log.Warn("embedding dimension mismatch",
				"listing_id", l.ID,
				"got", len(l.Embedding),
				"want", b.Dimension)
		default:
			candidates = append(candidates, l)
		}
	}
	stats.Candidates = len(candidates)

	var edges []listing.Edge
	for _, p := range source.Pairs(candidates) {
		a, c := candidates[p.I], candidates[p.J]
		if a.ID == c.ID {
			continue
		}
		stats.Comparisons++

		score := Cosine(a.Embedding, c.Embedding)
		if score > b.Threshold {
			edges = append(edges, listing.NewSimilarityEdge(a.ID, c.ID, score))
			stats.Proposed++
		}
	}
	return edges, stats
}
