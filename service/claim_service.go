// Package service holds the retrieval-and-decision pipeline: query
// parsing, similarity matching, verdicts, and corpus ingestion.
package service

import (
	"context"

	"go.uber.org/zap"

	"claimpilot-backend/models"
	"claimpilot-backend/parser"
)

// QueryResult is the terminal output of one processed claim query.
// BestScore is 0 when no clause cleared the threshold.
type QueryResult struct {
	Query     string             `json:"query"`
	Parsed    models.ParsedQuery `json:"parsed"`
	Decision  models.Decision    `json:"decision"`
	BestScore float64            `json:"best_score"`
}

// ClaimService runs the full pipeline for a single query: parse the
// free text, match it against indexed clauses, and decide.
type ClaimService struct {
	parser  parser.QueryParser
	matcher *Matcher
	engine  *DecisionEngine
	logger  *zap.Logger
}

// ClaimServiceOption is a functional option for ClaimService
type ClaimServiceOption func(*ClaimService)

func ClaimWithParser(p parser.QueryParser) ClaimServiceOption {
	return func(s *ClaimService) {
		s.parser = p
	}
}

func ClaimWithMatcher(m *Matcher) ClaimServiceOption {
	return func(s *ClaimService) {
		s.matcher = m
	}
}

func ClaimWithDecisionEngine(e *DecisionEngine) ClaimServiceOption {
	return func(s *ClaimService) {
		s.engine = e
	}
}

func ClaimWithLogger(logger *zap.Logger) ClaimServiceOption {
	return func(s *ClaimService) {
		s.logger = logger
	}
}

func NewClaimService(opts ...ClaimServiceOption) *ClaimService {
	s := &ClaimService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessQuery never returns an error: a collaborator failure becomes a
// rejected Decision carrying the failure message in its justification.
func (s *ClaimService) ProcessQuery(ctx context.Context, query string) QueryResult {
	parsed := s.parser.Parse(ctx, query)

	match, err := s.matcher.Match(ctx, parsed)
	if err != nil {
		s.logger.Warn("matching failed", zap.String("query", query), zap.Error(err))
		return QueryResult{
			Query:    query,
			Parsed:   parsed,
			Decision: s.engine.Reject(err.Error()),
		}
	}

	decision := s.engine.Decide(parsed, match)
	s.logger.Info("query decided",
		zap.String("decision", string(decision.Decision)),
		zap.Strings("matched_clauses", decision.MatchedClauses))

	result := QueryResult{Query: query, Parsed: parsed, Decision: decision}
	if match != nil {
		result.BestScore = match.Score
	}
	return result
}
