package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appconfig "claimpilot-backend/config"
)

// Storage interface for policy document storage operations
type Storage interface {
	// Upload stores a document and returns the storage path
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a document by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a document by storage path
	Delete(ctx context.Context, storagePath string) error

	// List returns the storage paths of all stored documents
	List(ctx context.Context) ([]string, error)
}

// NewStorage creates a storage instance based on configuration
func NewStorage(cfg appconfig.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateStoragePath generates a unique storage path for a document
func generateStoragePath(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "/", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")

	return fmt.Sprintf("%s/%s_%s%s", fileID.String()[:2], fileID.String(), baseName, ext)
}
