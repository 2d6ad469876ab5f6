// Package neo4j stores similarity edges as relationships between Property
// nodes in Neo4j.
package neo4j

import (
	"context"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/realagent/homegraph/internal/graph"
	"github.com/realagent/homegraph/internal/listing"
)

// EdgeRepository implements graph.EdgeRepository using Neo4j.
type EdgeRepository struct {
	driver neo4j.DriverWithContext
}

// NewEdgeRepository creates a Neo4j-backed edge repository and verifies
// connectivity.
func NewEdgeRepository(ctx context.Context, uri, username, password string) (*EdgeRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &EdgeRepository{driver: driver}, nil
}

// VerifyConnectivity re-checks the Bolt connection, for health probes.
func (r *EdgeRepository) VerifyConnectivity(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// Cypher cannot parameterize relationship types, so the type is validated
// and interpolated. Uppercase snake only, matching SIMILAR_TO.
var relTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// InsertEdge MERGEs the edge so the write is idempotent. The pair is
// normalized first; MERGE on the ordered pair then enforces at most one
// relationship per unordered pair and type. An ON CREATE marker
// distinguishes a fresh write from an existing relationship.
func (r *EdgeRepository) InsertEdge(ctx context.Context, e listing.Edge) (graph.InsertOutcome, error) {
	e = e.Normalize()
	if e.SourceID == e.TargetID {
		return 0, fmt.Errorf("insert edge: self-edge for listing %s", e.SourceID)
	}
	if !relTypePattern.MatchString(e.Type) {
		return 0, fmt.Errorf("insert edge: invalid relationship type %q", e.Type)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	query := fmt.Sprintf(
		"MERGE (a:Property {id: $src}) "+
			"MERGE (b:Property {id: $tgt}) "+
			"MERGE (a)-[r:%s]->(b) "+
			"ON CREATE SET r.similarity_score = $score, r.created_at = timestamp(), r.was_created = true "+
			"ON MATCH SET r.was_created = false "+
			"RETURN r.was_created AS created",
		e.Type)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"src":   e.SourceID,
			"tgt":   e.TargetID,
			"score": e.Score,
		})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := record.Get("created")
		wasCreated, _ := v.(bool)
		return wasCreated, nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert edge %s-%s: %w", e.SourceID, e.TargetID, err)
	}

	if created.(bool) {
		return graph.OutcomeCreated, nil
	}
	return graph.OutcomeDuplicate, nil
}

func (r *EdgeRepository) CountEdges(ctx context.Context, relType string) (int64, error) {
	if !relTypePattern.MatchString(relType) {
		return 0, fmt.Errorf("count edges: invalid relationship type %q", relType)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	count, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r) AS n", relType), nil)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := record.Get("n")
		return v.(int64), nil
	})
	if err != nil {
		return 0, fmt.Errorf("count edges: %w", err)
	}
	return count.(int64), nil
}

func (r *EdgeRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var _ graph.EdgeRepository = (*EdgeRepository)(nil)
