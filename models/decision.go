package models

import (
	"time"

	"github.com/google/uuid"
)

// DecisionStatus is the terminal state of one claim query.
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// Decision is the terminal output of one claim query.
//
// Invariant: an approved decision carries exactly one matched clause id and
// an amount sourced from that clause's metadata; a rejected decision carries
// an empty matched-clause list.
type Decision struct {
	Decision       DecisionStatus `json:"decision"`
	Amount         string         `json:"amount"`
	Justification  string         `json:"justification"`
	MatchedClauses []string       `json:"matched_clauses"`
}

// ClaimQuery is the persisted audit record of one processed query. The core
// pipeline never writes these; the API layer does.
type ClaimQuery struct {
	ID        uuid.UUID   `json:"id"`
	QueryText string      `json:"query_text"`
	Parsed    ParsedQuery `json:"parsed"`
	Result    Decision    `json:"result"`
	CreatedAt time.Time   `json:"created_at"`
}
