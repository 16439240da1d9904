// Package handlers wires the claim pipeline to its HTTP surface.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claimpilot-backend/metrics"
	"claimpilot-backend/models"
	"claimpilot-backend/repository"
	"claimpilot-backend/service"
)

// ClaimHandler handles HTTP requests for claim queries
type ClaimHandler struct {
	claimService *service.ClaimService
	claimRepo    *repository.ClaimQueryRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewClaimHandler creates a new claim handler. The repository and
// metrics may be nil, in which case queries are not persisted or
// counted.
func NewClaimHandler(claimService *service.ClaimService, claimRepo *repository.ClaimQueryRepository, m *metrics.Metrics, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
		claimRepo:    claimRepo,
		metrics:      m,
		logger:       logger,
	}
}

type processQueryRequest struct {
	Query string `json:"query"`
}

// ProcessQuery handles POST /api/queries
func (h *ClaimHandler) ProcessQuery(c *gin.Context) {
	var req processQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body must be JSON with a query field",
			},
		})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_QUERY",
				"message": "query is required",
			},
		})
		return
	}

	start := time.Now()
	result := h.claimService.ProcessQuery(c.Request.Context(), req.Query)

	if h.metrics != nil {
		h.metrics.QueryDuration.Observe(time.Since(start).Seconds())
		h.metrics.QueriesTotal.WithLabelValues(string(result.Decision.Decision)).Inc()
		if result.BestScore > 0 {
			h.metrics.BestMatchScore.Observe(result.BestScore)
		}
	}

	data := gin.H{
		"query":    result.Query,
		"parsed":   result.Parsed,
		"decision": result.Decision,
	}
	if h.claimRepo != nil {
		record := &models.ClaimQuery{
			QueryText: result.Query,
			Parsed:    result.Parsed,
			Result:    result.Decision,
		}
		if err := h.claimRepo.Create(c.Request.Context(), record); err != nil {
			h.logger.Error("failed to persist claim query", zap.Error(err))
		} else {
			data["id"] = record.ID
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ListQueries handles GET /api/queries
func (h *ClaimHandler) ListQueries(c *gin.Context) {
	if h.claimRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_DISABLED",
				"message": "Query persistence is not configured",
			},
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_LIMIT",
				"message": "limit must be a positive integer",
			},
		})
		return
	}

	records, err := h.claimRepo.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list claim queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list queries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
	})
}

// GetQuery handles GET /api/queries/:id
func (h *ClaimHandler) GetQuery(c *gin.Context) {
	if h.claimRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_DISABLED",
				"message": "Query persistence is not configured",
			},
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_QUERY_ID",
				"message": "Invalid query id format",
			},
		})
		return
	}

	record, err := h.claimRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUERY_NOT_FOUND",
					"message": "Query not found",
				},
			})
			return
		}
		h.logger.Error("failed to load claim query", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load query",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
