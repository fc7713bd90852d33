// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.finagent/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: model selection, generation parameters, safety threshold
//   - History: location of the persisted query history file
//   - Serve: HTTP listen address, CORS origins, proxy trust, rate limiting
//   - Telemetry: OTLP trace exporter endpoint and service identity
//
// Security: the Gemini API key is never written to the config file and is
// masked in MarshalJSON. A missing key does not fail Load; the query
// service degrades to fixed error responses instead (the dashboard keeps
// working in text-only, error-reporting mode).
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidTopP indicates the top-p value is out of range.
	ErrInvalidTopP = errors.New("invalid top_p")

	// ErrInvalidTopK indicates the top-k value is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidSafetyThreshold indicates the safety threshold is not supported.
	ErrInvalidSafetyThreshold = errors.New("invalid safety threshold")

	// ErrInvalidHistoryPath indicates the history file path is invalid.
	ErrInvalidHistoryPath = errors.New("invalid history path")

	// ErrInvalidAddr indicates the HTTP listen address is invalid.
	ErrInvalidAddr = errors.New("invalid listen address")
)

// Safety threshold identifiers used in Config.SafetyThreshold.
// They map onto the Gemini API harm-block thresholds.
const (
	SafetyBlockNone   = "none"
	SafetyBlockLow    = "low"    // block low and above
	SafetyBlockMedium = "medium" // block medium and above
	SafetyBlockHigh   = "high"   // block only high
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (API keys, tokens), update MarshalJSON.
type Config struct {
	// AI model configuration.
	// Generation parameters are deliberately deterministic-leaning: the
	// dashboard answers factual financial questions, not creative prompts.
	ModelName       string  `mapstructure:"model_name" json:"model_name"`
	Temperature     float32 `mapstructure:"temperature" json:"temperature"`
	TopP            float32 `mapstructure:"top_p" json:"top_p"`
	TopK            int     `mapstructure:"top_k" json:"top_k"`
	MaxTokens       int     `mapstructure:"max_tokens" json:"max_tokens"`
	SafetyThreshold string  `mapstructure:"safety_threshold" json:"safety_threshold"`

	// APIKey is the Gemini credential, read from GEMINI_API_KEY.
	// Empty is allowed: the query service reports "configuration error"
	// envelopes and health "degraded" instead of crashing.
	APIKey string `mapstructure:"api_key" json:"api_key"` // SENSITIVE: masked in MarshalJSON

	// HistoryPath is the JSON file holding the persisted query history.
	// Empty selects ~/.finagent/history.json.
	HistoryPath string `mapstructure:"history_path" json:"history_path"`

	// Serve mode configuration.
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Telemetry configuration (see telemetry.go).
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".finagent")

	// Ensure directory exists (0750 for better security)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults(configDir)
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(configDir string) {
	// AI defaults: low temperature and fixed sampling parameters keep
	// answers reproducible for identical queries.
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.2)
	viper.SetDefault("top_p", 0.8)
	viper.SetDefault("top_k", 40)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("safety_threshold", SafetyBlockMedium)

	// History defaults
	viper.SetDefault("history_path", filepath.Join(configDir, "history.json"))

	// Serve defaults
	viper.SetDefault("addr", "127.0.0.1:3500")
	viper.SetDefault("cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_burst", 60)

	// Telemetry defaults
	viper.SetDefault("telemetry.endpoint", "localhost:4318")
	viper.SetDefault("telemetry.environment", "dev")
	viper.SetDefault("telemetry.service_name", "finagent")
	viper.SetDefault("telemetry.enabled", false)
}

// bindEnvVariables binds environment variables explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	// Gemini credential. GEMINI_API_KEY is the provider's conventional name;
	// absence degrades the service rather than failing Load.
	mustBind("api_key", "GEMINI_API_KEY")

	// AI model overrides
	mustBind("model_name", "FINAGENT_MODEL_NAME")
	mustBind("temperature", "FINAGENT_TEMPERATURE")
	mustBind("max_tokens", "FINAGENT_MAX_TOKENS")
	mustBind("safety_threshold", "FINAGENT_SAFETY_THRESHOLD")

	// History location override
	mustBind("history_path", "FINAGENT_HISTORY_PATH")

	// Serve mode overrides
	mustBind("addr", "FINAGENT_ADDR")
	mustBind("cors_origins", "FINAGENT_CORS_ORIGINS")
	mustBind("trust_proxy", "FINAGENT_TRUST_PROXY")
	mustBind("rate_burst", "FINAGENT_RATE_BURST")

	// Telemetry overrides
	mustBind("telemetry.enabled", "FINAGENT_TELEMETRY_ENABLED")
	mustBind("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) avoid accidental substring matches against
// real secret material.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Shows first 2 and last 2 characters for longer secrets, fully masks
// short ones to prevent substring matching.
//
// THREAT MODEL: This defends against accidental logging of real secrets.
// It is NOT cryptographically secure - if logs are compromised, rotate keys.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - APIKey
//
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIKey = maskSecret(c.APIKey)
	return json.Marshal(a)
}
