package repository

import (
	"context"
	"time"

	"claimpilot-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PolicyDocumentRepository handles database operations for uploaded policy documents
type PolicyDocumentRepository struct {
	db *pgxpool.Pool
}

// NewPolicyDocumentRepository creates a new policy document repository
func NewPolicyDocumentRepository(db *pgxpool.Pool) *PolicyDocumentRepository {
	return &PolicyDocumentRepository{db: db}
}

// Create creates a new policy document record
func (r *PolicyDocumentRepository) Create(ctx context.Context, doc *models.PolicyDocument) error {
	query := `
		INSERT INTO policy_documents (filename, mime_type, size_bytes, storage_path, clause_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
		doc.ClauseCount,
	).Scan(&doc.ID, &doc.CreatedAt)

	return err
}

// GetByID retrieves a policy document by ID
func (r *PolicyDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PolicyDocument, error) {
	doc := &models.PolicyDocument{}
	query := `
		SELECT id, filename, mime_type, size_bytes, storage_path, clause_count, indexed_at, created_at
		FROM policy_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.ClauseCount,
		&doc.IndexedAt,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// List retrieves all policy documents, newest first
func (r *PolicyDocumentRepository) List(ctx context.Context) ([]models.PolicyDocument, error) {
	query := `
		SELECT id, filename, mime_type, size_bytes, storage_path, clause_count, indexed_at, created_at
		FROM policy_documents
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.PolicyDocument
	for rows.Next() {
		var doc models.PolicyDocument
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.MimeType,
			&doc.Size,
			&doc.StoragePath,
			&doc.ClauseCount,
			&doc.IndexedAt,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// MarkIndexed records the clause count from the latest ingestion run
func (r *PolicyDocumentRepository) MarkIndexed(ctx context.Context, storagePath string, clauseCount int) error {
	query := `
		UPDATE policy_documents SET
			clause_count = $2,
			indexed_at = $3
		WHERE storage_path = $1`

	_, err := r.db.Exec(ctx, query, storagePath, clauseCount, time.Now())
	return err
}
