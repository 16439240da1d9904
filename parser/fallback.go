package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"claimpilot-backend/models"
)

var (
	ageYearOldRe = regexp.MustCompile(`(\d+)[- ]?year[- ]?old`)
	ageLabelRe   = regexp.MustCompile(`age[: ]?(\d+)`)
	ageGenderRe  = regexp.MustCompile(`(\d+)\s?(m|f|male|female)\b`)
	genderWordRe = regexp.MustCompile(`\b(male|female)\b`)
	genderAbbrRe = regexp.MustCompile(`\d+\s?(m|f)\b`)
	locationRe   = regexp.MustCompile(`in\s+([a-zA-Z\s]+)`)
	durationRe   = regexp.MustCompile(`(\d+)[- ]?month[s]?`)
)

// FallbackParser is the deterministic regex-based field extractor. It is a
// pure function of the query string, so decisions remain reproducible when
// the primary extraction service is unavailable.
type FallbackParser struct {
	procedures []string
}

// NewFallbackParser creates a fallback parser matching procedures against the
// given vocabulary (case-insensitive substring match, in order).
func NewFallbackParser(procedures []string) *FallbackParser {
	return &FallbackParser{procedures: procedures}
}

// Parse extracts fields from the query. Fields that cannot be recognized are
// left nil.
func (p *FallbackParser) Parse(_ context.Context, query string) models.ParsedQuery {
	q := strings.ToLower(query)

	var parsed models.ParsedQuery
	parsed.Age = extractAge(q)
	parsed.Gender = extractGender(q)
	parsed.Procedure = p.extractProcedure(q)
	parsed.Location = extractLocation(q)
	parsed.PolicyDurationMonths = extractDuration(q)
	return parsed
}

func extractAge(q string) *int {
	m := ageYearOldRe.FindStringSubmatch(q)
	if m == nil {
		m = ageLabelRe.FindStringSubmatch(q)
	}
	if m == nil {
		m = ageGenderRe.FindStringSubmatch(q)
	}
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func extractGender(q string) *string {
	if m := genderWordRe.FindStringSubmatch(q); m != nil {
		g := m[1]
		return &g
	}
	if m := genderAbbrRe.FindStringSubmatch(q); m != nil {
		g := models.GenderFemale
		if m[1] == "m" {
			g = models.GenderMale
		}
		return &g
	}
	return nil
}

func (p *FallbackParser) extractProcedure(q string) *string {
	for _, proc := range p.procedures {
		if strings.Contains(q, proc) {
			v := proc
			return &v
		}
	}
	return nil
}

func extractLocation(q string) *string {
	m := locationRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	loc := strings.TrimSpace(m[1])
	if loc == "" {
		return nil
	}
	return &loc
}

func extractDuration(q string) *int {
	m := durationRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}
