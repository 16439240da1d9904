package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claimpilot-backend/models"
	"claimpilot-backend/repository"
	"claimpilot-backend/service"
	"claimpilot-backend/storage"
)

// DocumentHandler handles HTTP requests for policy documents and index
// rebuilds
type DocumentHandler struct {
	docRepo       *repository.PolicyDocumentRepository
	jobRepo       *repository.IndexJobRepository
	storage       storage.Storage
	ingestService *service.IngestService
	maxFileSize   int64
	logger        *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	docRepo *repository.PolicyDocumentRepository,
	jobRepo *repository.IndexJobRepository,
	st storage.Storage,
	ingestService *service.IngestService,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docRepo:       docRepo,
		jobRepo:       jobRepo,
		storage:       st,
		ingestService: ingestService,
		maxFileSize:   20 * 1024 * 1024, // 20MB
		logger:        logger,
	}
}

// UploadDocument handles POST /api/documents/upload
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_FILE_TYPE",
				"message": "Only PDF documents are accepted",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_ERROR",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}
	defer file.Close()

	docID := uuid.New()
	storagePath, err := h.storage.Upload(c.Request.Context(), docID, fileHeader.Filename, file)
	if err != nil {
		h.logger.Error("failed to store document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to store uploaded file",
			},
		})
		return
	}

	doc := &models.PolicyDocument{
		ID:          docID,
		Filename:    fileHeader.Filename,
		MimeType:    "application/pdf",
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}
	if h.docRepo != nil {
		if err := h.docRepo.Create(c.Request.Context(), doc); err != nil {
			h.logger.Error("failed to persist document record", zap.Error(err))
			// Try to clean up uploaded file
			if delErr := h.storage.Delete(c.Request.Context(), storagePath); delErr != nil {
				h.logger.Warn("failed to clean up orphaned upload", zap.String("storage_path", storagePath), zap.Error(delErr))
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to save document record",
				},
			})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":           doc.ID,
			"filename":     doc.Filename,
			"storage_path": doc.StoragePath,
			"size":         doc.Size,
		},
	})
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	if h.docRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_DISABLED",
				"message": "Document persistence is not configured",
			},
		})
		return
	}

	docs, err := h.docRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list documents",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	if h.docRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_DISABLED",
				"message": "Document persistence is not configured",
			},
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DOCUMENT_ID",
				"message": "Invalid document id format",
			},
		})
		return
	}

	doc, err := h.docRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DOCUMENT_NOT_FOUND",
					"message": "Document not found",
				},
			})
			return
		}
		h.logger.Error("failed to load document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load document",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// RebuildIndex handles POST /api/index/rebuild
func (h *DocumentHandler) RebuildIndex(c *gin.Context) {
	job, err := h.ingestService.StartRebuild(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRebuildInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REBUILD_IN_PROGRESS",
					"message": "An index rebuild is already running",
				},
			})
			return
		}
		h.logger.Error("failed to start index rebuild", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REBUILD_FAILED",
				"message": "Failed to start index rebuild",
			},
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id": job.ID,
			"status": job.Status,
		},
	})
}

// GetIndexJob handles GET /api/index/jobs/:id
func (h *DocumentHandler) GetIndexJob(c *gin.Context) {
	if h.jobRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_DISABLED",
				"message": "Job persistence is not configured",
			},
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_JOB_ID",
				"message": "Invalid job id format",
			},
		})
		return
	}

	job, err := h.jobRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "JOB_NOT_FOUND",
					"message": "Job not found",
				},
			})
			return
		}
		h.logger.Error("failed to load index job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load job",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}
