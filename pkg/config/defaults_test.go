package config

import (
	"path/filepath"
	"testing"

	"mercator-hq/switchboard/pkg/environment"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ModelProvider != DefaultModelProvider {
		t.Errorf("expected model provider %q, got %q", DefaultModelProvider, cfg.ModelProvider)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Logging.Format != DefaultLoggingFormat {
		t.Errorf("expected logging format %q, got %q", DefaultLoggingFormat, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		t.Error("expected secret redaction enabled by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
	if cfg.Telemetry.Tracing.SampleRatio != DefaultTracingSamplingRate {
		t.Errorf("expected sample ratio %v, got %v", DefaultTracingSamplingRate, cfg.Telemetry.Tracing.SampleRatio)
	}
	if len(cfg.Telemetry.Metrics.TokenFetchBuckets) != len(DefaultTokenFetchBuckets) {
		t.Errorf("expected %d buckets, got %d", len(DefaultTokenFetchBuckets), len(cfg.Telemetry.Metrics.TokenFetchBuckets))
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestDefault_BucketsNotShared(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Metrics.TokenFetchBuckets[0] = 42

	if DefaultTokenFetchBuckets[0] == 42 {
		t.Error("expected default buckets to be copied")
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		ModelProvider: "oss",
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "error", Format: "json"},
			Tracing: TracingConfig{SampleRatio: 0.25, ServiceName: "gateway"},
		},
	}

	ApplyDefaults(cfg)

	if cfg.ModelProvider != "oss" {
		t.Errorf("expected model provider %q, got %q", "oss", cfg.ModelProvider)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("expected logging level %q, got %q", "error", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("expected sample ratio 0.25, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Telemetry.Tracing.ServiceName != "gateway" {
		t.Errorf("expected service name %q, got %q", "gateway", cfg.Telemetry.Tracing.ServiceName)
	}
	if cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("expected metrics path %q, got %q", DefaultMetricsPath, cfg.Telemetry.Metrics.Path)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.ModelProvider != first.ModelProvider || cfg.Telemetry.Tracing.Sampler != first.Telemetry.Tracing.Sampler {
		t.Errorf("expected second call to change nothing, got %+v", cfg)
	}
	if len(cfg.Telemetry.Metrics.TokenFetchBuckets) != len(DefaultTokenFetchBuckets) {
		t.Errorf("expected buckets not to grow, got %v", cfg.Telemetry.Metrics.TokenFetchBuckets)
	}
}

func TestDefaultAuthFile(t *testing.T) {
	tests := []struct {
		name string
		env  environment.Map
		want string
	}{
		{
			name: "switchboard home",
			env:  environment.Map{"SWITCHBOARD_HOME": "/srv/sb", "HOME": "/home/ada"},
			want: filepath.Join("/srv/sb", "auth.json"),
		},
		{
			name: "home directory",
			env:  environment.Map{"HOME": "/home/ada"},
			want: filepath.Join("/home/ada", ".switchboard", "auth.json"),
		},
		{
			name: "blank switchboard home",
			env:  environment.Map{"SWITCHBOARD_HOME": "  ", "HOME": "/home/ada"},
			want: filepath.Join("/home/ada", ".switchboard", "auth.json"),
		},
		{
			name: "nothing set",
			env:  environment.Map{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultAuthFile(tt.env); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
