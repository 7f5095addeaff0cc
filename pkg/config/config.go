package config

import (
	"mercator-hq/switchboard/pkg/providers"
)

// Config is the root configuration structure for switchboard.
// It is loaded from a YAML, JSON or TOML document and may be overridden by
// environment variables.
type Config struct {
	// ModelProvider is the id of the provider used when none is given
	// explicitly.
	// Default: "openai"
	ModelProvider string `yaml:"model_provider" json:"model_provider" toml:"model_provider"`

	// ModelProviders declares additional providers, keyed by id. An entry
	// whose id matches a built-in provider replaces it.
	ModelProviders map[string]providers.Info `yaml:"model_providers,omitempty" json:"model_providers,omitempty" toml:"model_providers,omitempty"`

	// Auth configures the stored credential.
	Auth AuthConfig `yaml:"auth" json:"auth" toml:"auth"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry" toml:"telemetry"`
}

// AuthConfig contains configuration for the stored credential.
type AuthConfig struct {
	// File is the path of the JSON credential file.
	// Default: $SWITCHBOARD_HOME/auth.json, or ~/.switchboard/auth.json
	File string `yaml:"file" json:"file" toml:"file"`

	// Watch reloads the credential file when it changes.
	// Default: false
	Watch bool `yaml:"watch" json:"watch" toml:"watch"`

	// PreferredMode selects between an API key and a managed login when the
	// credential file holds both.
	// Options: "managed", "apikey"
	// Default: "" (managed login first)
	PreferredMode string `yaml:"preferred_mode" json:"preferred_mode" toml:"preferred_mode"`

	// StrictEnvKey fails request building when a provider's env_key is
	// declared but unset, even if a stored credential exists.
	// Default: false
	StrictEnvKey bool `yaml:"strict_env_key" json:"strict_env_key" toml:"strict_env_key"`

	// TokenURL is the OAuth token endpoint used to refresh managed logins.
	// Refreshing is disabled when empty.
	TokenURL string `yaml:"token_url" json:"token_url" toml:"token_url"`

	// ClientID is the OAuth client id sent when refreshing.
	ClientID string `yaml:"client_id" json:"client_id" toml:"client_id"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" json:"logging" toml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" toml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing" json:"tracing" toml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" json:"level" toml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format" json:"format" toml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" json:"add_source" toml:"add_source"`

	// RedactSecrets masks API keys, bearer tokens and similar values in log
	// entries.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets" json:"redact_secrets" toml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress serves the Prometheus endpoint from long-running commands
	// such as "watch". Empty disables the endpoint.
	// Example: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" json:"path" toml:"path"`

	// Namespace is the metric name prefix.
	// Default: "switchboard"
	Namespace string `yaml:"namespace" json:"namespace" toml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "providers"
	Subsystem string `yaml:"subsystem" json:"subsystem" toml:"subsystem"`

	// TokenFetchBuckets defines histogram buckets for bearer token fetch
	// latency (seconds).
	// Default: [0.001, 0.01, 0.05, 0.1, 0.5, 1, 5]
	TokenFetchBuckets []float64 `yaml:"token_fetch_buckets" json:"token_fetch_buckets" toml:"token_fetch_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "parent_based"
	// Default: "parent_based"
	Sampler string `yaml:"sampler" json:"sampler" toml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used by the "ratio" and "parent_based" samplers.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" json:"sample_ratio" toml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint" json:"endpoint" toml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure" json:"insecure" toml:"insecure"`

	// TimeoutMS bounds each export call, in milliseconds.
	// Default: 10000
	TimeoutMS int `yaml:"timeout_ms" json:"timeout_ms" toml:"timeout_ms"`

	// ServiceName is the service name in traces.
	// Default: "switchboard"
	ServiceName string `yaml:"service_name" json:"service_name" toml:"service_name"`
}
