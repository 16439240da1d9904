// Package index stores clause vectors and serves nearest-neighbour
// retrieval over them. Three backends are available: pgvector (default),
// qdrant, and an in-memory brute-force store for tests and small corpora.
package index

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"claimpilot-backend/config"
	"claimpilot-backend/models"
)

// Index is a vector store over policy clauses. Distance is cosine
// distance, so smaller means more similar.
type Index interface {
	// Rebuild discards all stored clauses and prepares the backend for
	// a fresh ingestion run.
	Rebuild(ctx context.Context) error
	// Add stores a clause with its embedding.
	Add(ctx context.Context, clause models.Clause, vector []float64) error
	// Query returns up to k clauses ordered by ascending distance.
	Query(ctx context.Context, vector []float64, k int) ([]models.RetrievedClause, error)
	// Count reports the number of indexed clauses.
	Count(ctx context.Context) (int, error)
}

// New builds the index backend selected by cfg.Type.
func New(cfg config.IndexConfig, pool *pgxpool.Pool, dimension int, logger *zap.Logger) (Index, error) {
	switch cfg.Type {
	case "pgvector", "":
		if pool == nil {
			return nil, fmt.Errorf("pgvector index requires a database connection")
		}
		return NewPgvectorIndex(pool, dimension, logger), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant index requires qdrant connection settings")
		}
		return NewQdrantIndex(*cfg.Qdrant, dimension, logger)
	case "memory":
		return NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", cfg.Type)
	}
}
