package models

import (
	"time"

	"github.com/google/uuid"
)

// PolicyDocument represents an uploaded policy PDF tracked by the backend.
type PolicyDocument struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mime_type"`
	Size        int64      `json:"size"`
	StoragePath string     `json:"storage_path"`
	ClauseCount int        `json:"clause_count"`
	IndexedAt   *time.Time `json:"indexed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
