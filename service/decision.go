package service

import (
	"fmt"

	"claimpilot-backend/models"
)

// DecisionEngine turns the best match (or its absence) into a verdict.
// An approved decision carries exactly one matched clause id and an
// amount from that clause; a rejected decision carries none.
type DecisionEngine struct {
	threshold      float64
	defaultAmount  string
	rejectedAmount string
}

func NewDecisionEngine(threshold float64, defaultAmount, rejectedAmount string) *DecisionEngine {
	return &DecisionEngine{
		threshold:      threshold,
		defaultAmount:  defaultAmount,
		rejectedAmount: rejectedAmount,
	}
}

// Decide applies the verdict rules in order: no procedure, no match
// above threshold, then the waiting period check on the matched clause.
func (e *DecisionEngine) Decide(parsed models.ParsedQuery, match *ClauseMatch) models.Decision {
	if !parsed.HasProcedure() {
		return models.Decision{
			Decision:       models.DecisionRejected,
			Amount:         e.rejectedAmount,
			Justification:  "no procedure specified",
			MatchedClauses: []string{},
		}
	}

	if match == nil {
		return models.Decision{
			Decision:       models.DecisionRejected,
			Amount:         e.rejectedAmount,
			Justification:  fmt.Sprintf("No clause matched above similarity threshold (%g).", e.threshold),
			MatchedClauses: []string{},
		}
	}

	waiting := match.Clause.Metadata.WaitingPeriodMonths
	duration := parsed.DurationOrZero()
	if duration < waiting {
		return models.Decision{
			Decision:       models.DecisionRejected,
			Amount:         e.rejectedAmount,
			Justification:  fmt.Sprintf("Waiting period of %d months not met, policy is %d months old.", waiting, duration),
			MatchedClauses: []string{},
		}
	}

	amount := match.Clause.Metadata.CoverageAmount
	if amount == "" {
		amount = e.defaultAmount
	}
	return models.Decision{
		Decision:       models.DecisionApproved,
		Amount:         amount,
		Justification:  fmt.Sprintf("Matched clause %s covering the procedure.", match.Clause.ID),
		MatchedClauses: []string{match.Clause.ID},
	}
}

// Reject builds the terminal rejection used when a collaborator fails
// mid-pipeline. The error message becomes the justification so the
// pipeline never surfaces an error to its caller.
func (e *DecisionEngine) Reject(justification string) models.Decision {
	return models.Decision{
		Decision:       models.DecisionRejected,
		Amount:         e.rejectedAmount,
		Justification:  justification,
		MatchedClauses: []string{},
	}
}
