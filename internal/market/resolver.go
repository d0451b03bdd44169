// Package market resolves an industry label and competitor candidates for a
// page via the generative model. The model is an external, non-deterministic
// collaborator: any failure on this boundary degrades to an empty result and
// is never propagated to the caller.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xeipuuv/gojsonschema"

	"github.com/answerscope/aeo-analyzer/internal/llm"
	"github.com/answerscope/aeo-analyzer/internal/types"
)

// FallbackIndustry is the industry label reported when the model call fails
// or its reply cannot be used.
const FallbackIndustry = "AI error"

// Resolver maps a page excerpt and its source URL to market intelligence.
// Implementations never return an error; failures collapse into a result with
// Industry == FallbackIndustry and no competitors.
type Resolver interface {
	Resolve(ctx context.Context, excerpt, sourceURL string) *types.MarketIntel
}

// responseSchema validates the model reply before decoding. The model is
// prompted for exactly this shape, but replies are untrusted input.
const responseSchema = `{
	"type": "object",
	"required": ["industry", "competitors"],
	"properties": {
		"industry": {"type": "string"},
		"competitors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["url"],
				"properties": {
					"url": {"type": "string"},
					"description": {"type": "string"},
					"country": {"type": "string"}
				}
			}
		}
	}
}`

const promptTemplate = `Analyze this text from the site %s: "%s..."

Task:
1. Detect the INDUSTRY.
2. Identify 5 REAL, DIRECT COMPETITORS that sell similar products or services.
3. For each one, provide a description of what they do and their main country of origin/operation.

Respond ONLY with valid JSON:
{
    "industry": "...",
    "competitors": [
        {"url": "www.rival1.com", "description": "What the business does.", "country": "Chile"}
    ]
}`

// GeminiResolver resolves competitors through the configured llm.Client.
type GeminiResolver struct {
	client llm.Client
	schema *gojsonschema.Schema
}

// NewGeminiResolver creates a resolver backed by the given model client.
func NewGeminiResolver(client llm.Client) (*GeminiResolver, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}
	return &GeminiResolver{
		client: client,
		schema: schema,
	}, nil
}

// Resolve asks the model for the page's industry and up to five direct
// competitors. One attempt, no retry.
func (r *GeminiResolver) Resolve(ctx context.Context, excerpt, sourceURL string) *types.MarketIntel {
	prompt := fmt.Sprintf(promptTemplate, sourceURL, excerpt)

	raw, err := r.client.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("[market] model call failed: %v", err)
		return fallback()
	}

	result, err := r.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		log.Printf("[market] model reply is not valid JSON: %v", err)
		return fallback()
	}
	if !result.Valid() {
		log.Printf("[market] model reply failed schema validation: %v", result.Errors())
		return fallback()
	}

	var intel types.MarketIntel
	if err := json.Unmarshal([]byte(raw), &intel); err != nil {
		log.Printf("[market] failed to decode model reply: %v", err)
		return fallback()
	}

	return &intel
}

func fallback() *types.MarketIntel {
	return &types.MarketIntel{Industry: FallbackIndustry, Competitors: []types.CompetitorCandidate{}}
}
