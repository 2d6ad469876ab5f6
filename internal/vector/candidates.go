package vector

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/realagent/homegraph/internal/listing"
	"github.com/realagent/homegraph/internal/similarity"
)

const (
	defaultTopK          = 20
	defaultSearchTimeout = 30 * time.Second
)

// CandidateSource narrows the builder's pair enumeration using the vector
// index: instead of every unordered pair, only each listing's top-k
// neighbors are compared. Scores still come from the builder's own cosine
// pass over the primary embeddings; the index only proposes candidates.
//
// Pair enumeration is a synchronous interface, so searches run under an
// internal timeout rather than a caller context.
type CandidateSource struct {
	repo    Repository
	topK    int
	timeout time.Duration
	log     *slog.Logger
}

// NewCandidateSource creates a CandidateSource. topK <= 0 means the
// default; a nil logger means slog.Default.
func NewCandidateSource(repo Repository, topK int, log *slog.Logger) *CandidateSource {
	if topK <= 0 {
		topK = defaultTopK
	}
	if log == nil {
		log = slog.Default()
	}
	return &CandidateSource{repo: repo, topK: topK, timeout: defaultSearchTimeout, log: log}
}

// Pairs returns the deduplicated union of each candidate's top-k neighbor
// pairs, in canonical order. A failed search drops that listing's
// candidates and is logged; the rest of the enumeration continues.
func (s *CandidateSource) Pairs(candidates []listing.Listing) []similarity.Pair {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	index := make(map[string]int, len(candidates))
	for i, l := range candidates {
		index[l.ID] = i
	}

	seen := make(map[similarity.Pair]struct{})
	for i, l := range candidates {
		neighbors, err := s.repo.Search(ctx, l.Embedding, s.topK)
		if err != nil {
			s.log.Warn("candidate search failed", "listing_id", l.ID, "error", err)
			continue
		}
		for _, n := range neighbors {
			j, ok := index[n.ID]
			if !ok || j == i {
				continue
			}
			p := similarity.Pair{I: min(i, j), J: max(i, j)}
			seen[p] = struct{}{}
		}
	}

	pairs := make([]similarity.Pair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}

var _ similarity.PairSource = (*CandidateSource)(nil)
