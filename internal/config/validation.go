package config

import (
	"fmt"
	"log/slog"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Note: the Gemini API key is deliberately NOT validated here. A missing
// key is a degraded-but-functional state (the query service returns fixed
// "configuration error" envelopes), never a startup failure.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, query service will run degraded",
			"hint", "get an API key at https://ai.google.dev/gemini-api/docs/api-key")
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	// Reference: Gemini API documentation
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.TopP <= 0.0 || c.TopP > 1.0 {
		return fmt.Errorf("%w: must be in (0.0, 1.0], got %.2f", ErrInvalidTopP, c.TopP)
	}

	if c.TopK < 1 || c.TopK > 1000 {
		return fmt.Errorf("%w: must be between 1 and 1000, got %d", ErrInvalidTopK, c.TopK)
	}

	// MaxTokens range: 1 to 2097152 (Gemini 2.5 max context window)
	// Reference: https://ai.google.dev/gemini-api/docs/models
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	validThresholds := []string{SafetyBlockNone, SafetyBlockLow, SafetyBlockMedium, SafetyBlockHigh}
	if !slices.Contains(validThresholds, c.SafetyThreshold) {
		return fmt.Errorf("%w: must be one of %v, got %q",
			ErrInvalidSafetyThreshold, validThresholds, c.SafetyThreshold)
	}

	if c.HistoryPath == "" {
		return fmt.Errorf("%w: history_path cannot be empty", ErrInvalidHistoryPath)
	}

	if c.Addr == "" {
		return fmt.Errorf("%w: addr cannot be empty", ErrInvalidAddr)
	}

	return nil
}
