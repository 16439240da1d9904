package repository

import (
	"context"
	"time"

	"claimpilot-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IndexJobRepository handles database operations for index rebuild jobs
type IndexJobRepository struct {
	db *pgxpool.Pool
}

// NewIndexJobRepository creates a new index job repository
func NewIndexJobRepository(db *pgxpool.Pool) *IndexJobRepository {
	return &IndexJobRepository{db: db}
}

// Create creates a new index job in pending state
func (r *IndexJobRepository) Create(ctx context.Context, job *models.IndexJob) error {
	query := `
		INSERT INTO index_jobs (status, documents, clauses, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.Status,
		job.Documents,
		job.Clauses,
		job.ErrorMessage,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an index job by ID
func (r *IndexJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IndexJob, error) {
	job := &models.IndexJob{}
	query := `
		SELECT id, status, documents, clauses, error_message,
			created_at, updated_at, completed_at
		FROM index_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Status,
		&job.Documents,
		&job.Clauses,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// UpdateStatus updates the status of an index job
func (r *IndexJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IndexJobStatus) error {
	query := `
		UPDATE index_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// Complete marks an index job as completed with its final counters
func (r *IndexJobRepository) Complete(ctx context.Context, id uuid.UUID, documents, clauses int) error {
	now := time.Now()
	query := `
		UPDATE index_jobs SET
			status = $2,
			documents = $3,
			clauses = $4,
			completed_at = $5,
			updated_at = $5
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.IndexJobCompleted, documents, clauses, now)
	return err
}

// Fail marks an index job as failed
func (r *IndexJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE index_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.IndexJobFailed, errorMessage)
	return err
}
