package query

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/darshil0/FinAgent-Pro/internal/config"
)

// systemPrompt fixes the analyst role and the output contract, including the
// delimited chart block the extraction layer understands.
const systemPrompt = `You are a senior financial analyst. Answer questions about
markets, companies, and economic indicators concisely and factually, in
well-structured markdown. Note the limits of your knowledge where relevant;
never present speculation as fact and never give personalized investment
advice.

When the answer contains series or categorical data worth visualizing, append
exactly one chart block to the end of your answer in this form:

<chart>
{"type":"trend","items":[{"name":"Q1 2024","value":119.6},{"name":"Q2 2024","value":123.4}]}
</chart>

Rules for the chart block:
- "type" is one of "trend" (time series), "sector" (categorical comparison),
  or "heatmap" (relative intensity).
- Every item has a "name" string and a numeric "value".
- Emit at most one block, with valid JSON and no code fences.
- Omit the block entirely when no data merits a chart.`

// GeminiGenerator calls the Gemini API with fixed, deterministic generation
// parameters. It implements Generator.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	cfg    *genai.GenerateContentConfig
}

// NewGeminiGenerator builds a generator from cfg. The caller has already
// verified cfg.APIKey is non-empty.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  cfg.ModelName,
		cfg: &genai.GenerateContentConfig{
			Temperature:       genai.Ptr(cfg.Temperature),
			TopP:              genai.Ptr(cfg.TopP),
			TopK:              genai.Ptr(float32(cfg.TopK)),
			MaxOutputTokens:   int32(cfg.MaxTokens),
			SafetySettings:    safetySettings(cfg.SafetyThreshold),
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	}, nil
}

// Generate issues a single completion request and returns the response text.
func (g *GeminiGenerator) Generate(ctx context.Context, userQuery string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userQuery), g.cfg)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	return resp.Text(), nil
}

// safetySettings applies one block threshold uniformly across the harm
// categories the API moderates.
func safetySettings(threshold string) []*genai.SafetySetting {
	var t genai.HarmBlockThreshold
	switch threshold {
	case config.SafetyBlockNone:
		t = genai.HarmBlockThresholdBlockNone
	case config.SafetyBlockLow:
		t = genai.HarmBlockThresholdBlockLowAndAbove
	case config.SafetyBlockHigh:
		t = genai.HarmBlockThresholdBlockOnlyHigh
	default:
		t = genai.HarmBlockThresholdBlockMediumAndAbove
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: t})
	}
	return settings
}
