package models

// Gender values recognized by the query parsers.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// ParsedQuery holds the structured fields extracted from a free-text claim
// query. Nil fields mean the field was not present in the query. A ParsedQuery
// is produced once per query and never mutated.
type ParsedQuery struct {
	Age                  *int    `json:"age"`
	Gender               *string `json:"gender"`
	Procedure            *string `json:"procedure"`
	Location             *string `json:"location"`
	PolicyDurationMonths *int    `json:"policy_duration_months"`
}

// HasProcedure reports whether a procedure was extracted. A query without a
// procedure can never match a clause.
func (q *ParsedQuery) HasProcedure() bool {
	return q.Procedure != nil && *q.Procedure != ""
}

// DurationOrZero returns the policy duration in months, defaulting to 0 when
// the field was not extracted.
func (q *ParsedQuery) DurationOrZero() int {
	if q.PolicyDurationMonths == nil {
		return 0
	}
	return *q.PolicyDurationMonths
}
