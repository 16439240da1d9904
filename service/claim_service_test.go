package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claimpilot-backend/config"
	"claimpilot-backend/models"
	"claimpilot-backend/parser"
)

func newTestClaimService(t *testing.T, embedder *fakeEmbedder, clauses ...models.Clause) *ClaimService {
	t.Helper()
	idx := populatedIndex(t, embedder, clauses...)
	return NewClaimService(
		ClaimWithParser(parser.NewFallbackParser(config.DefaultProcedures)),
		ClaimWithMatcher(NewMatcher(embedder, idx, 0.4, 5, zap.NewNop())),
		ClaimWithDecisionEngine(NewDecisionEngine(0.4, "₹1,00,000", "₹0")),
		ClaimWithLogger(zap.NewNop()),
	)
}

func kneeClause(waitingMonths int) models.Clause {
	return models.Clause{
		ID:   "AUTO-1",
		Text: "knee surgery is covered under this policy subject to the waiting period",
		Metadata: models.ClauseMetadata{
			WaitingPeriodMonths: waitingMonths,
			CoverageAmount:      "₹1,50,000",
		},
	}
}

func TestProcessQuery_ApprovedWhenWaitingPeriodMet(t *testing.T) {
	embedder := &fakeEmbedder{
		defaultVec: []float64{1, 0, 0},
		byText: map[string][]float64{
			kneeClause(2).Text: {0.9, 0.1, 0},
		},
	}
	svc := newTestClaimService(t, embedder, kneeClause(2))

	result := svc.ProcessQuery(context.Background(),
		"46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	require.NotNil(t, result.Parsed.Age)
	assert.Equal(t, 46, *result.Parsed.Age)
	require.NotNil(t, result.Parsed.Procedure)
	assert.Equal(t, "knee surgery", *result.Parsed.Procedure)

	assert.Equal(t, models.DecisionApproved, result.Decision.Decision)
	assert.Equal(t, "₹1,50,000", result.Decision.Amount)
	assert.Equal(t, []string{"AUTO-1"}, result.Decision.MatchedClauses)
}

func TestProcessQuery_RejectedWhenWaitingPeriodUnmet(t *testing.T) {
	embedder := &fakeEmbedder{
		defaultVec: []float64{1, 0, 0},
		byText: map[string][]float64{
			kneeClause(6).Text: {0.9, 0.1, 0},
		},
	}
	svc := newTestClaimService(t, embedder, kneeClause(6))

	result := svc.ProcessQuery(context.Background(),
		"46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	assert.Equal(t, models.DecisionRejected, result.Decision.Decision)
	assert.Equal(t, "₹0", result.Decision.Amount)
	assert.Contains(t, result.Decision.Justification, "Waiting period")
	assert.Empty(t, result.Decision.MatchedClauses)
}

func TestProcessQuery_NoProcedure(t *testing.T) {
	embedder := &fakeEmbedder{
		defaultVec: []float64{1, 0, 0},
		byText: map[string][]float64{
			kneeClause(2).Text: {0.9, 0.1, 0},
		},
	}
	svc := newTestClaimService(t, embedder, kneeClause(2))

	result := svc.ProcessQuery(context.Background(), "I feel unwell")

	assert.Equal(t, models.DecisionRejected, result.Decision.Decision)
	assert.Equal(t, "₹0", result.Decision.Amount)
	assert.Equal(t, "no procedure specified", result.Decision.Justification)
	assert.Empty(t, result.Decision.MatchedClauses)
}

func TestProcessQuery_NoClauseAboveThreshold(t *testing.T) {
	clause := models.Clause{
		ID:       "AUTO-1",
		Text:     "dental care is excluded from coverage entirely",
		Metadata: models.ClauseMetadata{CoverageAmount: "₹1,00,000"},
	}
	embedder := &fakeEmbedder{
		defaultVec: []float64{1, 0, 0},
		byText: map[string][]float64{
			clause.Text: {0, 1, 0},
		},
	}
	svc := newTestClaimService(t, embedder, clause)

	result := svc.ProcessQuery(context.Background(),
		"46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	assert.Equal(t, models.DecisionRejected, result.Decision.Decision)
	assert.Contains(t, result.Decision.Justification, "similarity threshold")
}

func TestProcessQuery_EmbeddingFailureYieldsRejection(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := newTestClaimService(t, embedder)

	result := svc.ProcessQuery(context.Background(),
		"46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	assert.Equal(t, models.DecisionRejected, result.Decision.Decision)
	assert.Equal(t, "₹0", result.Decision.Amount)
	assert.Contains(t, result.Decision.Justification, "failed to embed")
	assert.Empty(t, result.Decision.MatchedClauses)
}
