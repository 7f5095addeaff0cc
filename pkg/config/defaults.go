package config

import (
	"path/filepath"

	"mercator-hq/switchboard/pkg/environment"
	"mercator-hq/switchboard/pkg/providers"
)

// Default values for configuration fields.
const (
	DefaultModelProvider = providers.OpenAIProviderID

	// Auth defaults
	DefaultAuthFileName = "auth.json"
	DefaultHomeDirName  = ".switchboard"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultLoggingRedactSecrets = true
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "switchboard"
	DefaultMetricsSubsystem     = "providers"
	DefaultTracingEnabled       = false
	DefaultTracingSampler       = "parent_based"
	DefaultTracingSamplingRate  = 1.0
	DefaultTracingTimeoutMS     = 10000
	DefaultTracingServiceName   = "switchboard"
)

// DefaultTokenFetchBuckets are the default histogram buckets for token fetch
// latency.
var DefaultTokenFetchBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Default returns a configuration with every default applied. Documents are
// decoded on top of it, so boolean settings that default to true keep their
// default unless the document sets them.
func Default() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: DefaultLoggingRedactSecrets},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.ModelProvider == "" {
		cfg.ModelProvider = DefaultModelProvider
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.TokenFetchBuckets) == 0 {
		cfg.Telemetry.Metrics.TokenFetchBuckets = append([]float64(nil), DefaultTokenFetchBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.TimeoutMS == 0 {
		cfg.Telemetry.Tracing.TimeoutMS = DefaultTracingTimeoutMS
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}

// DefaultAuthFile returns the default credential file location:
// $SWITCHBOARD_HOME/auth.json if SWITCHBOARD_HOME is set, otherwise
// $HOME/.switchboard/auth.json. It returns "" when neither is set.
func DefaultAuthFile(env environment.Env) string {
	if home, ok := environment.NonBlank(env, "SWITCHBOARD_HOME"); ok {
		return filepath.Join(home, DefaultAuthFileName)
	}
	if home, ok := environment.NonBlank(env, "HOME"); ok {
		return filepath.Join(home, DefaultHomeDirName, DefaultAuthFileName)
	}
	return ""
}
