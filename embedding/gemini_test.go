package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claimpilot-backend/config"
)

func testConfig() config.EmbedderConfig {
	return config.EmbedderConfig{
		Model:       "gemini-embedding-001",
		Dimension:   768,
		TimeoutSecs: 5,
	}
}

func TestEmbedQuery_Success(t *testing.T) {
	var gotReq EmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := EmbeddingResponse{Embedding: EmbeddingData{Values: []float64{3, 4}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("test-key", testConfig(), zap.NewNop(), WithBaseURL(srv.URL))

	vec, err := e.EmbedQuery(context.Background(), "knee surgery claim")
	require.NoError(t, err)

	assert.Equal(t, TaskTypeQuery, gotReq.TaskType)
	assert.Equal(t, 768, gotReq.OutputDimensionality)
	assert.Equal(t, "knee surgery claim", gotReq.Content.Parts[0].Text)

	// 3-4-5 triangle normalizes to 0.6, 0.8.
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-9)
	assert.InDelta(t, 0.8, vec[1], 1e-9)
}

func TestEmbedDocument_TaskType(t *testing.T) {
	var gotReq EmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(EmbeddingResponse{Embedding: EmbeddingData{Values: []float64{1}}})
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("k", testConfig(), zap.NewNop(), WithBaseURL(srv.URL))

	_, err := e.EmbedDocument(context.Background(), "clause text")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeDocument, gotReq.TaskType)
}

func TestEmbed_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(EmbeddingResponse{Embedding: EmbeddingData{Values: []float64{1, 0}}})
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("k", testConfig(), zap.NewNop(), WithBaseURL(srv.URL))

	vec, err := e.EmbedQuery(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []float64{1, 0}, vec)
}

func TestEmbed_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("k", testConfig(), zap.NewNop(), WithBaseURL(srv.URL))

	_, err := e.EmbedQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbed_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EmbeddingResponse{})
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("k", testConfig(), zap.NewNop(), WithBaseURL(srv.URL))

	_, err := e.EmbedQuery(context.Background(), "q")
	assert.Error(t, err)
}

func TestNormalize_ZeroVector(t *testing.T) {
	out := normalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestNormalize_UnitLength(t *testing.T) {
	out := normalize([]float64{2, 3, 6})
	var sum float64
	for _, v := range out {
		sum += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
}
