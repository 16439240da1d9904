package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"claimpilot-backend/embedding"
	"claimpilot-backend/index"
	"claimpilot-backend/models"
)

// ClauseMatch is the best clause found for a query, with its cosine
// similarity score.
type ClauseMatch struct {
	Clause models.Clause
	Score  float64
}

// Matcher scores a parsed query against indexed clauses and returns the
// best one above the similarity threshold.
type Matcher struct {
	embedder  embedding.Embedder
	index     index.Index
	threshold float64
	topK      int
	logger    *zap.Logger
}

func NewMatcher(embedder embedding.Embedder, idx index.Index, threshold float64, topK int, logger *zap.Logger) *Matcher {
	return &Matcher{
		embedder:  embedder,
		index:     idx,
		threshold: threshold,
		topK:      topK,
		logger:    logger,
	}
}

// buildDescription renders the canonical query description. Missing
// fields become empty strings, a missing duration becomes 0.
func buildDescription(parsed models.ParsedQuery) string {
	age := ""
	if parsed.Age != nil {
		age = fmt.Sprintf("%d", *parsed.Age)
	}
	gender := ""
	if parsed.Gender != nil {
		gender = *parsed.Gender
	}
	procedure := ""
	if parsed.Procedure != nil {
		procedure = strings.ToLower(*parsed.Procedure)
	}
	location := ""
	if parsed.Location != nil {
		location = *parsed.Location
	}
	return fmt.Sprintf("%s-year-old %s undergoing %s in %s with %d-month-old policy",
		age, gender, procedure, location, parsed.DurationOrZero())
}

// Match finds the best clause for the parsed query. It returns nil with
// no error when the query has no procedure or nothing clears the
// threshold. The query description is embedded once; a clause whose
// embedding fails is skipped.
func (m *Matcher) Match(ctx context.Context, parsed models.ParsedQuery) (*ClauseMatch, error) {
	if !parsed.HasProcedure() {
		return nil, nil
	}

	description := buildDescription(parsed)
	queryVec, err := m.embedder.EmbedQuery(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query description: %w", err)
	}

	candidates, err := m.index.Query(ctx, queryVec, m.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidate clauses: %w", err)
	}

	var best *ClauseMatch
	bestScore := 0.0
	for _, candidate := range candidates {
		clauseVec, err := m.embedder.EmbedDocument(ctx, candidate.Text)
		if err != nil {
			m.logger.Warn("skipping clause, embedding failed",
				zap.String("clause_id", candidate.ID),
				zap.Error(err))
			continue
		}

		score := cosine(queryVec, clauseVec)
		m.logger.Debug("clause scored",
			zap.String("clause_id", candidate.ID),
			zap.Float64("score", score))

		if score > bestScore && score > m.threshold {
			best = &ClauseMatch{Clause: candidate.Clause, Score: score}
			bestScore = score
		}
	}
	return best, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
