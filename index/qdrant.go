package index

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"claimpilot-backend/config"
	"claimpilot-backend/models"
)

// QdrantIndex stores clause vectors in a Qdrant collection. Clause ids
// are not valid point ids, so each point gets a random UUID and carries
// the clause id in its payload.
type QdrantIndex struct {
	api        *qdrant.Client
	collection string
	dimension  int
	logger     *zap.Logger
}

func NewQdrantIndex(cfg config.QdrantConfig, dimension int, logger *zap.Logger) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant client: %w", err)
	}
	return &QdrantIndex{
		api:        client,
		collection: cfg.Collection,
		dimension:  dimension,
		logger:     logger,
	}, nil
}

func (idx *QdrantIndex) Rebuild(ctx context.Context) error {
	collections, err := idx.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if slices.Contains(collections, idx.collection) {
		if err := idx.api.DeleteCollection(ctx, idx.collection); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", idx.collection, err)
		}
	}

	err = idx.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(idx.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", idx.collection, err)
	}

	idx.logger.Info("qdrant collection rebuilt",
		zap.String("collection", idx.collection),
		zap.Int("dimension", idx.dimension))
	return nil
}

func (idx *QdrantIndex) Add(ctx context.Context, clause models.Clause, vector []float64) error {
	if len(vector) != idx.dimension {
		return fmt.Errorf("embedding must be %d dimensions, got %d", idx.dimension, len(vector))
	}

	values := make([]float32, len(vector))
	for i, v := range vector {
		values[i] = float32(v)
	}

	wait := true
	_, err := idx.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(values...),
			Payload: qdrant.NewValueMap(map[string]any{
				"clause_id":             clause.ID,
				"clause_text":           clause.Text,
				"waiting_period_months": int64(clause.Metadata.WaitingPeriodMonths),
				"coverage_amount":       clause.Metadata.CoverageAmount,
				"source_document":       clause.Metadata.SourceDocument,
			}),
		}},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert clause %s: %w", clause.ID, err)
	}
	return nil
}

func (idx *QdrantIndex) Query(ctx context.Context, vector []float64, k int) ([]models.RetrievedClause, error) {
	values := make([]float32, len(vector))
	for i, v := range vector {
		values[i] = float32(v)
	}

	limit := uint64(k)
	points, err := idx.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(values...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", idx.collection, err)
	}

	results := make([]models.RetrievedClause, 0, len(points))
	for _, p := range points {
		payload := p.Payload
		rc := models.RetrievedClause{
			Clause: models.Clause{
				ID:   payload["clause_id"].GetStringValue(),
				Text: payload["clause_text"].GetStringValue(),
				Metadata: models.ClauseMetadata{
					WaitingPeriodMonths: int(payload["waiting_period_months"].GetIntegerValue()),
					CoverageAmount:      payload["coverage_amount"].GetStringValue(),
					SourceDocument:      payload["source_document"].GetStringValue(),
				},
			},
			// Qdrant reports cosine similarity, our callers expect distance.
			Distance: 1 - float64(p.Score),
		}
		results = append(results, rc)
	}
	return results, nil
}

func (idx *QdrantIndex) Count(ctx context.Context) (int, error) {
	count, err := idx.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: idx.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(count), nil
}
