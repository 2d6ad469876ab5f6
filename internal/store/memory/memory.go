// Package memory is an in-memory store used by tests and local dry runs.
// It implements both the listing repository and the edge repository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/realagent/homegraph/internal/graph"
	"github.com/realagent/homegraph/internal/listing"
	"github.com/realagent/homegraph/internal/store"
)

// Store holds listings and edges in maps. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	listings map[string]listing.Listing
	order    []string
	edges    map[string]listing.Edge

	fetchErr   error
	updateErrs map[string]int // listing id -> remaining injected failures
	insertErrs map[string]int // edge key -> remaining injected failures
}

// New creates an empty store.
func New() *Store {
	return &Store{
		listings:   make(map[string]listing.Listing),
		edges:      make(map[string]listing.Edge),
		updateErrs: make(map[string]int),
		insertErrs: make(map[string]int),
	}
}

// Add inserts or replaces listings, preserving insertion order for fetches.
func (s *Store) Add(ls ...listing.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range ls {
		if _, ok := s.listings[l.ID]; !ok {
			s.order = append(s.order, l.ID)
		}
		s.listings[l.ID] = l
	}
}

// Get returns a listing by id.
func (s *Store) Get(id string) (listing.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	return l, ok
}

// SetFetchError makes subsequent fetches fail, for fatal-path tests.
func (s *Store) SetFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailUpdates makes the next n UpdateLocation calls for id fail.
func (s *Store) FailUpdates(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErrs[id] = n
}

// FailInserts makes the next n InsertEdge calls for the pair fail.
func (s *Store) FailInserts(a, b string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErrs[edgeKey(listing.NewSimilarityEdge(a, b, 0))] = n
}

func (s *Store) FetchWithCoordinates(ctx context.Context) ([]listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []listing.Listing
	for _, id := range s.order {
		if l := s.listings[id]; l.HasCoordinates() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) FetchWithEmbeddings(ctx context.Context) ([]listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []listing.Listing
	for _, id := range s.order {
		if l := s.listings[id]; l.HasEmbedding() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) UpdateLocation(ctx context.Context, id, city, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.updateErrs[id]; n > 0 {
		s.updateErrs[id] = n - 1
		return fmt.Errorf("update %s: %w", id, store.ErrUnavailable)
	}
	l, ok := s.listings[id]
	if !ok {
		return fmt.Errorf("update %s: listing not found", id)
	}
	l.City, l.State = city, state
	s.listings[id] = l
	return nil
}

func (s *Store) InsertEdge(ctx context.Context, e listing.Edge) (graph.InsertOutcome, error) {
	e = e.Normalize()
	if e.SourceID == e.TargetID {
		return 0, fmt.Errorf("insert edge: self-edge for listing %s", e.SourceID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := edgeKey(e)
	if n := s.insertErrs[key]; n > 0 {
		s.insertErrs[key] = n - 1
		return 0, fmt.Errorf("insert edge %s: %w", key, store.ErrUnavailable)
	}
	if _, ok := s.edges[key]; ok {
		return graph.OutcomeDuplicate, nil
	}
	s.edges[key] = e
	return graph.OutcomeCreated, nil
}

func (s *Store) CountEdges(ctx context.Context, relType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, e := range s.edges {
		if e.Type == relType {
			n++
		}
	}
	return n, nil
}

// Edges returns a snapshot of all stored edges.
func (s *Store) Edges() []listing.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]listing.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	return out
}

func (s *Store) Close(ctx context.Context) error { return nil }

func edgeKey(e listing.Edge) string {
	return e.SourceID + "|" + e.Type + "|" + e.TargetID
}

var (
	_ store.Repository     = (*Store)(nil)
	_ graph.EdgeRepository = (*Store)(nil)
)
