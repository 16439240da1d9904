package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimpilot-backend/models"
)

func TestDecide_NoProcedure(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")

	d := engine.Decide(models.ParsedQuery{Age: intPtr(30)}, nil)

	assert.Equal(t, models.DecisionRejected, d.Decision)
	assert.Equal(t, "₹0", d.Amount)
	assert.Equal(t, "no procedure specified", d.Justification)
	assert.Empty(t, d.MatchedClauses)
}

func TestDecide_NoMatchReferencesThreshold(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")

	d := engine.Decide(parsedWithProcedure("knee surgery"), nil)

	assert.Equal(t, models.DecisionRejected, d.Decision)
	assert.Equal(t, "₹0", d.Amount)
	assert.Equal(t, "No clause matched above similarity threshold (0.4).", d.Justification)
	assert.Empty(t, d.MatchedClauses)
}

func TestDecide_ApprovedWhenWaitingPeriodMet(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")
	parsed := parsedWithProcedure("knee surgery")
	parsed.PolicyDurationMonths = intPtr(3)

	match := &ClauseMatch{
		Clause: models.Clause{
			ID:   "AUTO-1",
			Text: "Knee surgery is covered after a 2-month waiting period",
			Metadata: models.ClauseMetadata{
				WaitingPeriodMonths: 2,
				CoverageAmount:      "₹1,50,000",
			},
		},
		Score: 0.6,
	}

	d := engine.Decide(parsed, match)

	assert.Equal(t, models.DecisionApproved, d.Decision)
	assert.Equal(t, "₹1,50,000", d.Amount)
	assert.Equal(t, "Matched clause AUTO-1 covering the procedure.", d.Justification)
	assert.Equal(t, []string{"AUTO-1"}, d.MatchedClauses)
}

func TestDecide_ApprovedAtExactWaitingPeriod(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")
	parsed := parsedWithProcedure("knee surgery")
	parsed.PolicyDurationMonths = intPtr(2)

	match := &ClauseMatch{
		Clause: models.Clause{
			ID:       "AUTO-1",
			Metadata: models.ClauseMetadata{WaitingPeriodMonths: 2, CoverageAmount: "₹1,50,000"},
		},
		Score: 0.6,
	}

	d := engine.Decide(parsed, match)
	assert.Equal(t, models.DecisionApproved, d.Decision)
}

func TestDecide_RejectedWhenWaitingPeriodUnmet(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")
	parsed := parsedWithProcedure("knee surgery")
	parsed.PolicyDurationMonths = intPtr(3)

	match := &ClauseMatch{
		Clause: models.Clause{
			ID:       "AUTO-1",
			Metadata: models.ClauseMetadata{WaitingPeriodMonths: 6, CoverageAmount: "₹1,50,000"},
		},
		Score: 0.6,
	}

	d := engine.Decide(parsed, match)

	assert.Equal(t, models.DecisionRejected, d.Decision)
	assert.Equal(t, "₹0", d.Amount)
	assert.Equal(t, "Waiting period of 6 months not met, policy is 3 months old.", d.Justification)
	assert.Empty(t, d.MatchedClauses)
}

func TestDecide_NilDurationTreatedAsZero(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")
	parsed := parsedWithProcedure("knee surgery")

	match := &ClauseMatch{
		Clause: models.Clause{
			ID:       "AUTO-1",
			Metadata: models.ClauseMetadata{WaitingPeriodMonths: 2, CoverageAmount: "₹1,50,000"},
		},
		Score: 0.6,
	}

	d := engine.Decide(parsed, match)
	assert.Equal(t, models.DecisionRejected, d.Decision)
}

func TestDecide_DefaultAmountWhenClauseHasNone(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")
	parsed := parsedWithProcedure("knee surgery")
	parsed.PolicyDurationMonths = intPtr(12)

	match := &ClauseMatch{
		Clause: models.Clause{ID: "AUTO-1"},
		Score:  0.6,
	}

	d := engine.Decide(parsed, match)
	assert.Equal(t, models.DecisionApproved, d.Decision)
	assert.Equal(t, "₹1,00,000", d.Amount)
}

func TestReject_CarriesMessage(t *testing.T) {
	engine := NewDecisionEngine(0.4, "₹1,00,000", "₹0")

	d := engine.Reject("embedding backend unavailable")

	assert.Equal(t, models.DecisionRejected, d.Decision)
	assert.Equal(t, "₹0", d.Amount)
	assert.Equal(t, "embedding backend unavailable", d.Justification)
	assert.Empty(t, d.MatchedClauses)
}
