package segment

import (
	"regexp"
	"strconv"
	"strings"

	"claimpilot-backend/config"
	"claimpilot-backend/models"
)

var (
	clauseMarkerRe = regexp.MustCompile(`(?i)Clause\s*\d+[.\d]*[:.\-]?`)
	paragraphRe    = regexp.MustCompile(`\n\s*\n`)
	waitingRe      = regexp.MustCompile(`(?i)(\d+)[-\s]?months?\s*(waiting|wait)?`)
	amountRe       = regexp.MustCompile(`₹\s?[\d,]+`)
)

// Segmenter splits raw policy text into clause-like units and extracts
// per-clause coverage metadata. Segmentation is a pure function of the input
// text and the configured length thresholds.
type Segmenter struct {
	minClauseLen    int
	minParagraphLen int
	defaultAmount   string
}

// New creates a segmenter from configuration.
func New(cfg config.SegmenterConfig, defaultAmount string) *Segmenter {
	return &Segmenter{
		minClauseLen:    cfg.MinClauseLen,
		minParagraphLen: cfg.MinParagraphLen,
		defaultAmount:   defaultAmount,
	}
}

// Segment splits a document's text into an ordered sequence of clauses.
// Clause ids and the source document are assigned by the caller. Empty text,
// or text containing only bodies below the length thresholds, yields zero
// clauses.
func (s *Segmenter) Segment(text string) []models.Clause {
	var texts []string
	if markers := clauseMarkerRe.FindAllStringIndex(text, -1); len(markers) > 0 {
		texts = s.splitOnMarkers(text, markers)
	} else {
		texts = s.splitOnParagraphs(text)
	}

	clauses := make([]models.Clause, 0, len(texts))
	for _, t := range texts {
		clauses = append(clauses, models.Clause{
			Text: t,
			Metadata: models.ClauseMetadata{
				WaitingPeriodMonths: ExtractWaitingPeriod(t),
				CoverageAmount:      s.extractCoverageAmount(t),
			},
		})
	}
	return clauses
}

// splitOnMarkers pairs each clause label with the body text up to the next
// label. Bodies shorter than the minimum clause length are discarded; bodies
// exactly at the threshold are kept.
func (s *Segmenter) splitOnMarkers(text string, markers [][]int) []string {
	var out []string
	for i, m := range markers {
		label := strings.TrimSpace(text[m[0]:m[1]])
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])
		if len(body) >= s.minClauseLen {
			out = append(out, label+" "+body)
		}
	}
	return out
}

// splitOnParagraphs is the fallback when no clause markers are present:
// blank-line separated paragraphs above the minimum paragraph length.
func (s *Segmenter) splitOnParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) >= s.minParagraphLen {
			out = append(out, p)
		}
	}
	return out
}

// ExtractWaitingPeriod returns the first numeric value preceding "month(s)"
// in the text, or 0 when absent.
func ExtractWaitingPeriod(text string) int {
	m := waitingRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func (s *Segmenter) extractCoverageAmount(text string) string {
	if m := amountRe.FindString(text); m != "" {
		return m
	}
	return s.defaultAmount
}
