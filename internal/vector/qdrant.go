package vector

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantRepository implements Repository using Qdrant.
type QdrantRepository struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// NewQdrant creates a Qdrant-backed repository.
func NewQdrant(ctx context.Context, host string, port int, collection string) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantRepository{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

func (r *QdrantRepository) EnsureCollection(ctx context.Context, dimension int) error {
	list, err := r.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("qdrant list collections: %w", err)
	}
	for _, c := range list.Collections {
		if c.Name == r.collection {
			return nil
		}
	}

	_, err = r.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant create collection %s: %w", r.collection, err)
	}
	return nil
}

func (r *QdrantRepository) Upsert(ctx context.Context, pts []Point) error {
	points := make([]*pb.PointStruct, len(pts))
	for i, p := range pts {
		payload := make(map[string]*pb.Value, len(p.Payload))
		for k, v := range p.Payload {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Vector}}},
			Payload: payload,
		}
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	return err
}

func (r *QdrantRepository) Search(ctx context.Context, vector []float32, topK int) ([]Neighbor, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(topK),
	})
	if err != nil {
		return nil, err
	}

	results := make([]Neighbor, len(resp.Result))
	for i, pt := range resp.Result {
		results[i] = Neighbor{
			ID:    pt.Id.GetUuid(),
			Score: pt.Score,
		}
	}
	return results, nil
}

func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

var _ Repository = (*QdrantRepository)(nil)
