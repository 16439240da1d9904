package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"claimpilot-backend/embedding"
	"claimpilot-backend/extract"
	"claimpilot-backend/index"
	"claimpilot-backend/metrics"
	"claimpilot-backend/models"
	"claimpilot-backend/repository"
	"claimpilot-backend/segment"
	"claimpilot-backend/storage"
)

var ErrRebuildInProgress = errors.New("index rebuild already in progress")

// IngestService rebuilds the clause index from stored policy documents.
// A rebuild is destructive: the index is dropped and every document is
// re-segmented, re-embedded, and clause ids are reassigned.
type IngestService struct {
	storage   storage.Storage
	segmenter *segment.Segmenter
	embedder  embedding.Embedder
	index     index.Index
	docRepo   *repository.PolicyDocumentRepository
	jobRepo   *repository.IndexJobRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger

	running atomic.Bool
}

// IngestServiceOption is a functional option for IngestService
type IngestServiceOption func(*IngestService)

func IngestWithStorage(st storage.Storage) IngestServiceOption {
	return func(s *IngestService) {
		s.storage = st
	}
}

func IngestWithSegmenter(seg *segment.Segmenter) IngestServiceOption {
	return func(s *IngestService) {
		s.segmenter = seg
	}
}

func IngestWithEmbedder(e embedding.Embedder) IngestServiceOption {
	return func(s *IngestService) {
		s.embedder = e
	}
}

func IngestWithIndex(idx index.Index) IngestServiceOption {
	return func(s *IngestService) {
		s.index = idx
	}
}

func IngestWithPolicyDocumentRepository(repo *repository.PolicyDocumentRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.docRepo = repo
	}
}

func IngestWithIndexJobRepository(repo *repository.IndexJobRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.jobRepo = repo
	}
}

func IngestWithMetrics(m *metrics.Metrics) IngestServiceOption {
	return func(s *IngestService) {
		s.metrics = m
	}
}

func IngestWithLogger(logger *zap.Logger) IngestServiceOption {
	return func(s *IngestService) {
		s.logger = logger
	}
}

func NewIngestService(opts ...IngestServiceOption) *IngestService {
	s := &IngestService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRebuild creates a rebuild job and runs it in the background.
// Only one rebuild may run at a time.
func (s *IngestService) StartRebuild(ctx context.Context) (*models.IndexJob, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRebuildInProgress
	}

	job := &models.IndexJob{Status: models.IndexJobPending}
	if s.jobRepo != nil {
		if err := s.jobRepo.Create(ctx, job); err != nil {
			s.running.Store(false)
			return nil, fmt.Errorf("failed to create index job: %w", err)
		}
	} else {
		job.ID = uuid.New()
	}

	go func() {
		defer s.running.Store(false)
		s.runJob(context.Background(), job.ID)
	}()

	return job, nil
}

// Run performs a rebuild synchronously and returns the document and
// clause counts. It shares the single-rebuild guard with StartRebuild.
func (s *IngestService) Run(ctx context.Context) (int, int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, 0, ErrRebuildInProgress
	}
	defer s.running.Store(false)
	return s.rebuild(ctx)
}

func (s *IngestService) runJob(ctx context.Context, jobID uuid.UUID) {
	if s.jobRepo != nil {
		if err := s.jobRepo.UpdateStatus(ctx, jobID, models.IndexJobInProgress); err != nil {
			s.logger.Error("failed to mark job in progress", zap.String("job_id", jobID.String()), zap.Error(err))
		}
	}

	documents, clauses, err := s.rebuild(ctx)
	if err != nil {
		s.logger.Error("index rebuild failed", zap.String("job_id", jobID.String()), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RebuildsTotal.WithLabelValues("failed").Inc()
		}
		if s.jobRepo != nil {
			if ferr := s.jobRepo.Fail(ctx, jobID, err.Error()); ferr != nil {
				s.logger.Error("failed to mark job failed", zap.Error(ferr))
			}
		}
		return
	}

	s.logger.Info("index rebuild completed",
		zap.String("job_id", jobID.String()),
		zap.Int("documents", documents),
		zap.Int("clauses", clauses))
	if s.metrics != nil {
		s.metrics.RebuildsTotal.WithLabelValues("completed").Inc()
	}
	if s.jobRepo != nil {
		if err := s.jobRepo.Complete(ctx, jobID, documents, clauses); err != nil {
			s.logger.Error("failed to mark job completed", zap.Error(err))
		}
	}
}

func (s *IngestService) rebuild(ctx context.Context) (int, int, error) {
	if err := s.index.Rebuild(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to rebuild index: %w", err)
	}

	paths, err := s.storage.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list documents: %w", err)
	}

	documents := 0
	clauses := 0
	nextID := 1

	for _, path := range paths {
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			continue
		}

		text, err := s.readDocument(ctx, path)
		if err != nil {
			s.logger.Warn("skipping document", zap.String("path", path), zap.Error(err))
			continue
		}

		indexed := 0
		for _, clause := range s.segmenter.Segment(text) {
			clause.ID = fmt.Sprintf("AUTO-%d", nextID)
			clause.Metadata.SourceDocument = path
			nextID++

			vec, err := s.embedder.EmbedDocument(ctx, clause.Text)
			if err != nil {
				s.logger.Warn("skipping clause, embedding failed",
					zap.String("clause_id", clause.ID),
					zap.Error(err))
				continue
			}

			if err := s.index.Add(ctx, clause, vec); err != nil {
				return documents, clauses, fmt.Errorf("failed to index clause %s: %w", clause.ID, err)
			}
			indexed++
			if s.metrics != nil {
				s.metrics.ClausesIndexed.Inc()
			}
		}

		documents++
		clauses += indexed
		s.logger.Info("document indexed", zap.String("path", path), zap.Int("clauses", indexed))

		if s.docRepo != nil {
			if err := s.docRepo.MarkIndexed(ctx, path, indexed); err != nil {
				s.logger.Warn("failed to update document record", zap.String("path", path), zap.Error(err))
			}
		}
	}

	return documents, clauses, nil
}

func (s *IngestService) readDocument(ctx context.Context, path string) (string, error) {
	reader, err := s.storage.Download(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return extract.PDFText(content)
}
