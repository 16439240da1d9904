package models

// ClauseMetadata holds the coverage attributes extracted from a clause text.
type ClauseMetadata struct {
	WaitingPeriodMonths int    `json:"waiting_period_months"`
	CoverageAmount      string `json:"coverage_amount"`
	SourceDocument      string `json:"source_document"`
}

// Clause represents an addressable unit of policy text in the retrieval index.
// Clauses are immutable once indexed; the index is rebuilt wholesale, never
// patched incrementally.
type Clause struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata ClauseMetadata `json:"metadata"`
}

// RetrievedClause pairs a clause with its vector distance from a query
// embedding, as returned by the retrieval index.
type RetrievedClause struct {
	Clause
	Distance float64 `json:"distance,omitempty"`
}
