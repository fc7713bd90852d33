package config

// TelemetryConfig holds OTLP trace exporter settings.
//
// Traces are exported over OTLP HTTP to a local collector/agent. Telemetry
// is opt-in (Enabled defaults to false) so the dashboard works out of the
// box without a collector running.
type TelemetryConfig struct {
	// Enabled turns trace export on.
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// Endpoint is the OTLP HTTP endpoint (default: localhost:4318).
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	// Environment is the deployment environment (dev, staging, prod).
	Environment string `mapstructure:"environment" json:"environment"`

	// ServiceName is the service name reported on spans.
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}
