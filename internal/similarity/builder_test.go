package similarity

import (
	"math"
	"testing"

	"github.com/realagent/homegraph/internal/listing"
)

func vec384(seed float32) []float32 {
	v := make([]float32, 384)
	for i := range v {
		v[i] = seed + float32(i)*0.01
	}
	return v
}

func TestBuildEdgesIdenticalVectors(t *testing.T) {
	b := NewBuilder()
	listings := []listing.Listing{
		{ID: "a", Embedding: vec384(1)},
		{ID: "b", Embedding: vec384(1)},
	}

	edges, stats := b.BuildEdges(listings)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if math.Abs(edges[0].Score-1.0) > 1e-6 {
		t.Errorf("identical vectors: score = %v, want ~1.0", edges[0].Score)
	}
	if edges[0].Type != listing.RelSimilarTo {
		t.Errorf("edge type = %q, want %q", edges[0].Type, listing.RelSimilarTo)
	}
	if stats.Comparisons != 1 {
		t.Errorf("comparisons = %d, want 1", stats.Comparisons)
	}
}

func TestBuildEdgesThresholdSelectsPairs(t *testing.T) {
	// Three 3-dim vectors with pairwise similarities ~0.9, ~0.5, ~0.3:
	// only the 0.9 pair clears the 0.7 threshold.
	a := []float32{1, 0, 0}
	b := []float32{0.9, 0.43589, 0}      // cos(a,b) = 0.9
	c := []float32{0.3, 0.5277, 0.79465} // cos(a,c) = 0.3, cos(b,c) ≈ 0.5

	builder := &Builder{Threshold: 0.7, Dimension: 3}
	edges, stats := builder.BuildEdges([]listing.Listing{
		{ID: "a", Embedding: a},
		{ID: "b", Embedding: b},
		{ID: "c", Embedding: c},
	})

	if stats.Comparisons != 3 {
		t.Errorf("comparisons = %d, want 3", stats.Comparisons)
	}
	if len(edges) != 1 {
		t.Fatalf("expected exactly 1 edge, got %d", len(edges))
	}
	e := edges[0]
	if e.SourceID != "a" || e.TargetID != "b" {
		t.Errorf("edge pair = (%s,%s), want (a,b)", e.SourceID, e.TargetID)
	}
	if math.Abs(e.Score-0.9) > 1e-3 {
		t.Errorf("edge score = %v, want ~0.9", e.Score)
	}
}

func TestBuildEdgesThresholdIsStrict(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 1} // similarity 1/sqrt(2)

	// Threshold set to the exact similarity: strict > means no edge.
	builder := &Builder{Threshold: Cosine(a, b), Dimension: 2}
	edges, _ := builder.BuildEdges([]listing.Listing{
		{ID: "a", Embedding: a},
		{ID: "b", Embedding: b},
	})
	if len(edges) != 0 {
		t.Errorf("similarity equal to threshold produced %d edges, want 0", len(edges))
	}
}

func TestBuildEdgesSkipsMissingEmbeddings(t *testing.T) {
	b := NewBuilder()
	listings := []listing.Listing{
		{ID: "a", Embedding: vec384(1)},
		{ID: "b"}, // no embedding
		{ID: "c", Embedding: []float32{}},
		{ID: "d", Embedding: vec384(1)},
	}

	edges, stats := b.BuildEdges(listings)
	if stats.SkippedMissingEmbedding != 2 {
		t.Errorf("skipped missing = %d, want 2", stats.SkippedMissingEmbedding)
	}
	if stats.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", stats.Candidates)
	}
	if len(edges) != 1 {
		t.Errorf("expected 1 edge among remaining candidates, got %d", len(edges))
	}
}

func TestBuildEdgesCountsDimensionMismatch(t *testing.T) {
	b := NewBuilder() // Dimension 384
	listings := []listing.Listing{
		{ID: "a", Embedding: vec384(1)},
		{ID: "b", Embedding: []float32{1, 2, 3}}, // wrong dimension
	}

	edges, stats := b.BuildEdges(listings)
	if stats.SkippedDimensionMismatch != 1 {
		t.Errorf("skipped mismatch = %d, want 1", stats.SkippedDimensionMismatch)
	}
	if stats.SkippedMissingEmbedding != 0 {
		t.Errorf("mismatch must not be counted as missing, got %d", stats.SkippedMissingEmbedding)
	}
	if len(edges) != 0 {
		t.Errorf("expected 0 edges, got %d", len(edges))
	}
}

func TestBuildEdgesPairCardinality(t *testing.T) {
	b := &Builder{Threshold: -2, Dimension: 4} // every pair qualifies
	var listings []listing.Listing
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		listings = append(listings, listing.Listing{ID: id, Embedding: []float32{1, 2, 3, 4}})
	}

	edges, stats := b.BuildEdges(listings)
	n := len(listings)
	max := n * (n - 1) / 2
	if stats.Comparisons != max {
		t.Errorf("comparisons = %d, want %d", stats.Comparisons, max)
	}
	if len(edges) != max {
		t.Errorf("edges = %d, want %d", len(edges), max)
	}
	seen := make(map[string]bool)
	for _, e := range edges {
		if e.SourceID == e.TargetID {
			t.Errorf("self-edge produced for %s", e.SourceID)
		}
		if e.TargetID < e.SourceID {
			t.Errorf("edge (%s,%s) not in canonical order", e.SourceID, e.TargetID)
		}
		key := e.SourceID + "|" + e.TargetID
		if seen[key] {
			t.Errorf("pair %s compared twice", key)
		}
		seen[key] = true
	}
}

func TestBruteForcePairsEmpty(t *testing.T) {
	if pairs := (BruteForcePairs{}).Pairs(nil); len(pairs) != 0 {
		t.Errorf("expected no pairs for empty input, got %d", len(pairs))
	}
	single := []listing.Listing{{ID: "a", Embedding: []float32{1}}}
	if pairs := (BruteForcePairs{}).Pairs(single); len(pairs) != 0 {
		t.Errorf("expected no pairs for single listing, got %d", len(pairs))
	}
}
