package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"claimpilot-backend/config"
	"claimpilot-backend/models"
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

const extractionPrompt = `Extract the following fields from the user's insurance query in JSON format:
- age (int or null)
- gender ("male", "female", or null)
- procedure (string or null)
- location (string or null)
- policy_duration_months (int or null)

Respond ONLY with a raw JSON object.

User Query: "%s"`

// GeminiParser is the primary query parser. It asks a Gemini model for a
// strict JSON object with the five claim fields and falls back to the
// deterministic regex parser whenever the model is unreachable or returns
// output without a parseable JSON object. The fallback guarantee means this
// parser, like FallbackParser, never fails.
type GeminiParser struct {
	client      *genai.Client
	model       string
	temperature float32
	fallback    *FallbackParser
	logger      *zap.Logger
}

// NewGeminiParser creates the primary parser. The fallback is mandatory.
func NewGeminiParser(client *genai.Client, cfg config.ParserConfig, fallback *FallbackParser, logger *zap.Logger) *GeminiParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiParser{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		fallback:    fallback,
		logger:      logger,
	}
}

// Parse extracts fields via the Gemini model, degrading to the regex
// fallback on any failure.
func (p *GeminiParser) Parse(ctx context.Context, query string) models.ParsedQuery {
	parsed, err := p.parseLLM(ctx, query)
	if err != nil {
		p.logger.Warn("llm extraction failed, using fallback parser", zap.Error(err))
		return p.fallback.Parse(ctx, query)
	}
	return parsed
}

func (p *GeminiParser) parseLLM(ctx context.Context, query string) (models.ParsedQuery, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(p.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(extractionPrompt, query)))
	if err != nil {
		return models.ParsedQuery{}, fmt.Errorf("generate content: %w", err)
	}

	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}

	return decodeExtraction(content.String())
}

// decodeExtraction locates the first JSON object in the model output and
// decodes it into a ParsedQuery.
func decodeExtraction(content string) (models.ParsedQuery, error) {
	raw := jsonObjectRe.FindString(content)
	if raw == "" {
		return models.ParsedQuery{}, fmt.Errorf("no JSON object in model output")
	}

	var parsed models.ParsedQuery
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.ParsedQuery{}, fmt.Errorf("decode extraction: %w", err)
	}

	// Models occasionally return cased or unexpected gender tokens.
	if parsed.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*parsed.Gender))
		if g != models.GenderMale && g != models.GenderFemale {
			parsed.Gender = nil
		} else {
			parsed.Gender = &g
		}
	}
	return parsed, nil
}
