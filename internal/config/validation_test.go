package config

import (
	"errors"
	"testing"
)

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		ModelName:       "gemini-2.5-flash",
		Temperature:     0.2,
		TopP:            0.8,
		TopK:            40,
		MaxTokens:       2048,
		SafetyThreshold: SafetyBlockMedium,
		HistoryPath:     "/tmp/history.json",
		Addr:            "127.0.0.1:3500",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var c *Config
	if err := c.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() = %v, want ErrConfigNil", err)
	}
}

func TestValidate_MissingAPIKeyIsNotAnError(t *testing.T) {
	c := validConfig()
	c.APIKey = ""
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() with empty API key = %v, want nil (degraded mode)", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "temperature too low",
			mutate:  func(c *Config) { c.Temperature = -0.1 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "temperature too high",
			mutate:  func(c *Config) { c.Temperature = 2.5 },
			wantErr: ErrInvalidTemperature,
		},
		{
			name:    "top_p zero",
			mutate:  func(c *Config) { c.TopP = 0 },
			wantErr: ErrInvalidTopP,
		},
		{
			name:    "top_p above one",
			mutate:  func(c *Config) { c.TopP = 1.5 },
			wantErr: ErrInvalidTopP,
		},
		{
			name:    "top_k zero",
			mutate:  func(c *Config) { c.TopK = 0 },
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "max tokens zero",
			mutate:  func(c *Config) { c.MaxTokens = 0 },
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "max tokens above Gemini limit",
			mutate:  func(c *Config) { c.MaxTokens = 3000000 },
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "unknown safety threshold",
			mutate:  func(c *Config) { c.SafetyThreshold = "extreme" },
			wantErr: ErrInvalidSafetyThreshold,
		},
		{
			name:    "empty history path",
			mutate:  func(c *Config) { c.HistoryPath = "" },
			wantErr: ErrInvalidHistoryPath,
		},
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Addr = "" },
			wantErr: ErrInvalidAddr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
