package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"claimpilot-backend/models"
)

// PgvectorIndex keeps clause vectors in a Postgres table with the
// pgvector extension and searches them with the cosine distance
// operator.
type PgvectorIndex struct {
	db        *pgxpool.Pool
	dimension int
	logger    *zap.Logger
}

func NewPgvectorIndex(db *pgxpool.Pool, dimension int, logger *zap.Logger) *PgvectorIndex {
	return &PgvectorIndex{db: db, dimension: dimension, logger: logger}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// rebuildStatements returns the DDL run by Rebuild, in order. The hnsw
// index must be recreated with the table or queries fall back to a
// sequential scan.
func rebuildStatements(dimension int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`DROP TABLE IF EXISTS clauses`,
		fmt.Sprintf(`CREATE TABLE clauses (
			id TEXT PRIMARY KEY,
			clause_text TEXT NOT NULL,
			waiting_period_months INTEGER NOT NULL DEFAULT 0,
			coverage_amount TEXT NOT NULL,
			source_document TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dimension),
		`CREATE INDEX idx_clauses_embedding ON clauses USING hnsw (embedding vector_cosine_ops)`,
	}
}

func (idx *PgvectorIndex) Rebuild(ctx context.Context) error {
	for _, stmt := range rebuildStatements(idx.dimension) {
		if _, err := idx.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to rebuild clauses table: %w", err)
		}
	}
	idx.logger.Info("clauses table rebuilt", zap.Int("dimension", idx.dimension))
	return nil
}

func (idx *PgvectorIndex) Add(ctx context.Context, clause models.Clause, vector []float64) error {
	if len(vector) != idx.dimension {
		return fmt.Errorf("embedding must be %d dimensions, got %d", idx.dimension, len(vector))
	}

	_, err := idx.db.Exec(ctx, `
		INSERT INTO clauses (id, clause_text, waiting_period_months, coverage_amount, source_document, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (id) DO UPDATE SET
			clause_text = EXCLUDED.clause_text,
			waiting_period_months = EXCLUDED.waiting_period_months,
			coverage_amount = EXCLUDED.coverage_amount,
			source_document = EXCLUDED.source_document,
			embedding = EXCLUDED.embedding`,
		clause.ID,
		clause.Text,
		clause.Metadata.WaitingPeriodMonths,
		clause.Metadata.CoverageAmount,
		clause.Metadata.SourceDocument,
		formatVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to insert clause %s: %w", clause.ID, err)
	}
	return nil
}

func (idx *PgvectorIndex) Query(ctx context.Context, vector []float64, k int) ([]models.RetrievedClause, error) {
	if len(vector) != idx.dimension {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", idx.dimension, len(vector))
	}

	rows, err := idx.db.Query(ctx, `
		SELECT
			id,
			clause_text,
			waiting_period_months,
			coverage_amount,
			source_document,
			embedding <=> $1::vector AS distance
		FROM clauses
		ORDER BY embedding <=> $1::vector
		LIMIT $2`,
		formatVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query clauses: %w", err)
	}
	defer rows.Close()

	var results []models.RetrievedClause
	for rows.Next() {
		var rc models.RetrievedClause
		if err := rows.Scan(
			&rc.ID,
			&rc.Text,
			&rc.Metadata.WaitingPeriodMonths,
			&rc.Metadata.CoverageAmount,
			&rc.Metadata.SourceDocument,
			&rc.Distance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan clause row: %w", err)
		}
		results = append(results, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clause rows: %w", err)
	}
	return results, nil
}

func (idx *PgvectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRow(ctx, `SELECT COUNT(*) FROM clauses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clauses: %w", err)
	}
	return count, nil
}
