package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig holds the tunables of the matching and decision pipeline.
// These were embedded literals in earlier revisions; tests exercise boundary
// values through this struct.
type PipelineConfig struct {
	SimilarityThreshold   float64  `yaml:"similarity_threshold"`
	DefaultCoverageAmount string   `yaml:"default_coverage_amount"`
	RejectedAmount        string   `yaml:"rejected_amount"`
	TopK                  int      `yaml:"top_k"`
	Procedures            []string `yaml:"procedures"`
}

// SegmenterConfig configures how raw policy text is split into clauses.
type SegmenterConfig struct {
	MinClauseLen    int `yaml:"min_clause_len"`
	MinParagraphLen int `yaml:"min_paragraph_len"`
}

// EmbedderConfig configures the Gemini embedding client.
type EmbedderConfig struct {
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ParserConfig configures the primary LLM-based query parser.
type ParserConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// QdrantConfig contains connection details for a Qdrant index backend.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// IndexConfig selects and configures the retrieval index implementation.
type IndexConfig struct {
	Type   string        `yaml:"type"` // "pgvector", "qdrant" or "memory"
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// StorageConfig selects and configures the policy document store.
type StorageConfig struct {
	Type      string `yaml:"type"` // "local" or "s3"
	LocalPath string `yaml:"local_path"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Region  string `yaml:"s3_region"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Parser    ParserConfig    `yaml:"parser"`
	Index     IndexConfig     `yaml:"index"`
	Storage   StorageConfig   `yaml:"storage"`
}

// DefaultProcedures is the fixed vocabulary the fallback parser matches
// procedures against.
var DefaultProcedures = []string{
	"knee surgery", "cardiac surgery", "gallbladder removal",
	"hip replacement", "bypass", "cataract", "appendix removal",
	"root canal", "appendicitis surgery",
}

// Load reads a config from path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Pipeline.SimilarityThreshold == 0 {
		cfg.Pipeline.SimilarityThreshold = 0.4
	}
	if cfg.Pipeline.DefaultCoverageAmount == "" {
		cfg.Pipeline.DefaultCoverageAmount = "₹1,00,000"
	}
	if cfg.Pipeline.RejectedAmount == "" {
		cfg.Pipeline.RejectedAmount = "₹0"
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 5
	}
	if len(cfg.Pipeline.Procedures) == 0 {
		cfg.Pipeline.Procedures = DefaultProcedures
	}
	if cfg.Segmenter.MinClauseLen == 0 {
		cfg.Segmenter.MinClauseLen = 40
	}
	if cfg.Segmenter.MinParagraphLen == 0 {
		cfg.Segmenter.MinParagraphLen = 50
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "gemini-embedding-001"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 768
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Parser.Model == "" {
		cfg.Parser.Model = "gemini-2.0-flash"
	}
	if cfg.Parser.Temperature == 0 {
		cfg.Parser.Temperature = 0.2
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "pgvector"
	}
	if cfg.Index.Type == "qdrant" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		if cfg.Index.Qdrant.Host == "" {
			cfg.Index.Qdrant.Host = "localhost"
		}
		if cfg.Index.Qdrant.Port == 0 {
			cfg.Index.Qdrant.Port = 6334
		}
		if cfg.Index.Qdrant.Collection == "" {
			cfg.Index.Qdrant.Collection = "insurance_clauses"
		}
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./documents"
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-east-1"
	}
}
