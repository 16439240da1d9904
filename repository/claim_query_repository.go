package repository

import (
	"context"

	"claimpilot-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClaimQueryRepository handles database operations for the claim query audit log
type ClaimQueryRepository struct {
	db *pgxpool.Pool
}

// NewClaimQueryRepository creates a new claim query repository
func NewClaimQueryRepository(db *pgxpool.Pool) *ClaimQueryRepository {
	return &ClaimQueryRepository{db: db}
}

// Create persists a processed query with its parsed fields and decision
func (r *ClaimQueryRepository) Create(ctx context.Context, q *models.ClaimQuery) error {
	query := `
		INSERT INTO claim_queries (query_text, parsed, result)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		q.QueryText,
		q.Parsed,
		q.Result,
	).Scan(&q.ID, &q.CreatedAt)

	return err
}

// GetByID retrieves a claim query by ID
func (r *ClaimQueryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClaimQuery, error) {
	q := &models.ClaimQuery{}
	query := `
		SELECT id, query_text, parsed, result, created_at
		FROM claim_queries
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.QueryText,
		&q.Parsed,
		&q.Result,
		&q.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return q, nil
}

// List retrieves the most recent claim queries
func (r *ClaimQueryRepository) List(ctx context.Context, limit int) ([]models.ClaimQuery, error) {
	query := `
		SELECT id, query_text, parsed, result, created_at
		FROM claim_queries
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []models.ClaimQuery
	for rows.Next() {
		var q models.ClaimQuery
		if err := rows.Scan(&q.ID, &q.QueryText, &q.Parsed, &q.Result, &q.CreatedAt); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	return queries, rows.Err()
}
