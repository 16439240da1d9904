package models

import (
	"time"

	"github.com/google/uuid"
)

// IndexJobStatus represents the status of an index rebuild job.
type IndexJobStatus string

const (
	IndexJobPending    IndexJobStatus = "pending"
	IndexJobInProgress IndexJobStatus = "in_progress"
	IndexJobCompleted  IndexJobStatus = "completed"
	IndexJobFailed     IndexJobStatus = "failed"
)

// IndexJob tracks one full rebuild of the clause index. Rebuilds are
// destructive (drop and recreate), so at most one job may run at a time.
type IndexJob struct {
	ID            uuid.UUID      `json:"id"`
	Status        IndexJobStatus `json:"status"`
	Documents     int            `json:"documents"`
	Clauses       int            `json:"clauses"`
	ErrorMessage  *string        `json:"error_message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}
