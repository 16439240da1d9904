package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimpilot-backend/models"
)

func clause(id, text string) models.Clause {
	return models.Clause{ID: id, Text: text, Metadata: models.ClauseMetadata{CoverageAmount: "₹1,00,000"}}
}

func TestMemoryIndex_QueryOrdersByDistance(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Add(ctx, clause("AUTO-1", "knee surgery coverage"), []float64{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, clause("AUTO-2", "dental exclusions"), []float64{0, 1, 0}))
	require.NoError(t, idx.Add(ctx, clause("AUTO-3", "orthopedic procedures"), []float64{0.9, 0.1, 0}))

	results, err := idx.Query(ctx, []float64{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "AUTO-1", results[0].ID)
	assert.Equal(t, "AUTO-3", results[1].ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.Less(t, results[0].Distance, results[1].Distance)
}

func TestMemoryIndex_RebuildClears(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Add(ctx, clause("AUTO-1", "text"), []float64{1, 0}))
	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, idx.Rebuild(ctx))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	results, err := idx.Query(ctx, []float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryIndex_KLargerThanStore(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Add(ctx, clause("AUTO-1", "text"), []float64{1, 0}))

	results, err := idx.Query(ctx, []float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}
