// Package parser extracts structured claim fields from free-text queries.
//
// Two strategies implement QueryParser: a primary LLM-based extractor backed
// by the Gemini API, and a deterministic regex fallback that needs no
// network. The primary strategy degrades to the fallback on any failure, so
// parsing as a whole never fails.
package parser

import (
	"context"

	"claimpilot-backend/models"
)

// QueryParser extracts structured fields from a free-text claim query. It
// must always return a well-formed (possibly all-null) ParsedQuery.
type QueryParser interface {
	Parse(ctx context.Context, query string) models.ParsedQuery
}
