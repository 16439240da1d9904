package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Pipeline.SimilarityThreshold)
	assert.Equal(t, "₹1,00,000", cfg.Pipeline.DefaultCoverageAmount)
	assert.Equal(t, "₹0", cfg.Pipeline.RejectedAmount)
	assert.Equal(t, 5, cfg.Pipeline.TopK)
	assert.Equal(t, DefaultProcedures, cfg.Pipeline.Procedures)
	assert.Equal(t, 40, cfg.Segmenter.MinClauseLen)
	assert.Equal(t, 50, cfg.Segmenter.MinParagraphLen)
	assert.Equal(t, "gemini-embedding-001", cfg.Embedder.Model)
	assert.Equal(t, 768, cfg.Embedder.Dimension)
	assert.Equal(t, "pgvector", cfg.Index.Type)
	assert.Equal(t, "local", cfg.Storage.Type)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pipeline:
  similarity_threshold: 0.6
  top_k: 10
index:
  type: qdrant
  qdrant:
    host: qdrant.internal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Pipeline.SimilarityThreshold)
	assert.Equal(t, 10, cfg.Pipeline.TopK)
	// Untouched fields still get defaults.
	assert.Equal(t, "₹1,00,000", cfg.Pipeline.DefaultCoverageAmount)

	assert.Equal(t, "qdrant", cfg.Index.Type)
	require.NotNil(t, cfg.Index.Qdrant)
	assert.Equal(t, "qdrant.internal", cfg.Index.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Index.Qdrant.Port)
	assert.Equal(t, "insurance_clauses", cfg.Index.Qdrant.Collection)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
