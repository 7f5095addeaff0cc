package config

import "mercator-hq/switchboard/pkg/providers"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for testing.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := *Default()
	cfg.Auth.File = "/tmp/switchboard-test/auth.json"
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithModelProvider sets the default provider id.
func (b *ConfigBuilder) WithModelProvider(id string) *ConfigBuilder {
	b.cfg.ModelProvider = id
	return b
}

// WithProvider adds a provider definition.
func (b *ConfigBuilder) WithProvider(id string, info providers.Info) *ConfigBuilder {
	if b.cfg.ModelProviders == nil {
		b.cfg.ModelProviders = make(map[string]providers.Info)
	}
	b.cfg.ModelProviders[id] = info
	return b
}

// WithPreferredMode sets the preferred stored credential mode.
func (b *ConfigBuilder) WithPreferredMode(mode string) *ConfigBuilder {
	b.cfg.Auth.PreferredMode = mode
	return b
}

// WithTokenRefresh sets the OAuth refresh endpoint.
func (b *ConfigBuilder) WithTokenRefresh(tokenURL, clientID string) *ConfigBuilder {
	b.cfg.Auth.TokenURL = tokenURL
	b.cfg.Auth.ClientID = clientID
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithLoggingFormat sets the logging format.
func (b *ConfigBuilder) WithLoggingFormat(format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetricsEnabled sets whether metrics are enabled.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// WithTracingEnabled sets whether tracing is enabled.
func (b *ConfigBuilder) WithTracingEnabled(enabled bool, endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = enabled
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	if b.cfg.Telemetry.Tracing.SampleRatio == 0 {
		b.cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
// This is useful for tests that don't care about most configuration values.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
