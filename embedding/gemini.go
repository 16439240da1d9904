// Package embedding generates dense vector representations of clause and
// query text through the Gemini embedContent API.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"claimpilot-backend/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// TaskTypeDocument is used when indexing clause text.
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	// TaskTypeQuery is used when embedding a claim description for retrieval.
	TaskTypeQuery = "RETRIEVAL_QUERY"

	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// Embedder produces L2-normalized vectors for text.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float64, error)
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

type PartInput struct {
	Text string `json:"text"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingData `json:"embedding"`
}

type EmbeddingData struct {
	Values []float64 `json:"values"`
}

// GeminiEmbedder calls the Gemini embedContent endpoint with retry and
// exponential backoff. Returned vectors are L2-normalized so cosine
// similarity reduces to a dot product.
type GeminiEmbedder struct {
	apiKey    string
	model     string
	dimension int
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

type GeminiOption func(*GeminiEmbedder)

// WithBaseURL overrides the API endpoint, primarily for tests.
func WithBaseURL(url string) GeminiOption {
	return func(e *GeminiEmbedder) {
		e.baseURL = url
	}
}

func WithHTTPClient(c *http.Client) GeminiOption {
	return func(e *GeminiEmbedder) {
		e.client = c
	}
}

func NewGeminiEmbedder(apiKey string, cfg config.EmbedderConfig, logger *zap.Logger, opts ...GeminiOption) *GeminiEmbedder {
	e := &GeminiEmbedder{
		apiKey:    apiKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

func (e *GeminiEmbedder) EmbedDocument(ctx context.Context, text string) ([]float64, error) {
	return e.embed(ctx, text, TaskTypeDocument)
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return e.embed(ctx, text, TaskTypeQuery)
}

func (e *GeminiEmbedder) embed(ctx context.Context, text string, taskType string) ([]float64, error) {
	reqBody := EmbeddingRequest{
		Model: "models/" + e.model,
		Content: ContentInput{
			Parts: []PartInput{{Text: text}},
		},
		TaskType:             taskType,
		OutputDimensionality: e.dimension,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:embedContent", e.baseURL, e.model)

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp EmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			resp.Body.Close()

			if len(apiResp.Embedding.Values) == 0 {
				return nil, fmt.Errorf("empty embedding in response")
			}
			return normalize(apiResp.Embedding.Values), nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Client errors are not transient, give up immediately.
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
		}

		lastErr = fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
		if e.logger != nil {
			e.logger.Warn("embedding request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("status", resp.StatusCode))
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxRetries, lastErr)
}

// normalize scales the vector to unit length. Zero vectors pass through
// unchanged.
func normalize(values []float64) []float64 {
	var sumSquares float64
	for _, v := range values {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return values
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / norm
	}
	return out
}
