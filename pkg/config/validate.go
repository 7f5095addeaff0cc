package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "telemetry.logging.level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// Provider definitions are checked with ValidateProvider. Whether
// model_provider names a known provider is left to the catalog, which also
// knows the built-in providers.
func Validate(cfg *Config) error {
	var errs []FieldError

	if strings.TrimSpace(cfg.ModelProvider) == "" {
		errs = append(errs, FieldError{
			Field:   "model_provider",
			Message: "model provider is required",
		})
	}

	errs = append(errs, validateProviders(cfg.ModelProviders)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// ValidateProvider checks a single provider definition. It returns a
// *providers.ConfigError naming the provider and the first offending field.
func ValidateProvider(id string, info providers.Info) error {
	if strings.TrimSpace(id) == "" {
		return &providers.ConfigError{Field: "model_providers", Message: "provider id must not be empty"}
	}
	if strings.TrimSpace(info.Name) == "" {
		return &providers.ConfigError{Provider: id, Field: "name", Message: "name is required"}
	}
	if info.BaseURL != "" {
		if msg := checkHTTPURL(info.BaseURL); msg != "" {
			return &providers.ConfigError{Provider: id, Field: "base_url", Message: msg}
		}
	}
	if !slices.Contains(providers.WireAPIs(), info.WireAPI) {
		return &providers.ConfigError{Provider: id, Field: "wire_api", Message: fmt.Sprintf("unknown wire API %d", info.WireAPI)}
	}
	for name := range info.StaticHeaders {
		if strings.TrimSpace(name) == "" {
			return &providers.ConfigError{Provider: id, Field: "static_headers", Message: "header name must not be empty"}
		}
	}
	for name, envVar := range info.EnvHeaders {
		if strings.TrimSpace(name) == "" {
			return &providers.ConfigError{Provider: id, Field: "env_headers", Message: "header name must not be empty"}
		}
		if strings.TrimSpace(envVar) == "" {
			return &providers.ConfigError{Provider: id, Field: "env_headers", Message: fmt.Sprintf("header %q has no environment variable", name)}
		}
	}
	return nil
}

func validateProviders(defs map[string]providers.Info) []FieldError {
	var errs []FieldError

	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		err := ValidateProvider(id, defs[id])
		if err == nil {
			continue
		}
		field := fmt.Sprintf("model_providers.%s", id)
		msg := err.Error()
		if cfgErr, ok := err.(*providers.ConfigError); ok {
			if cfgErr.Field != "" {
				field += "." + cfgErr.Field
			}
			msg = cfgErr.Message
		}
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	return errs
}

func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	if _, err := credentials.ParseAuthMode(cfg.PreferredMode); err != nil {
		errs = append(errs, FieldError{
			Field:   "auth.preferred_mode",
			Message: fmt.Sprintf("invalid preferred mode %q: must be 'managed' or 'apikey'", cfg.PreferredMode),
		})
	}

	if cfg.TokenURL != "" {
		if msg := checkHTTPURL(cfg.TokenURL); msg != "" {
			errs = append(errs, FieldError{Field: "auth.token_url", Message: msg})
		}
		if cfg.ClientID == "" {
			errs = append(errs, FieldError{
				Field:   "auth.client_id",
				Message: "client id is required when a token URL is set",
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: "telemetry." + field, Message: fmt.Sprintf(format, args...)})
	}

	if msg := oneOf(cfg.Logging.Level, logLevels); msg != "" {
		add("logging.level", "logging level %s", msg)
	}
	if msg := oneOf(cfg.Logging.Format, logFormats); msg != "" {
		add("logging.format", "logging format %s", msg)
	}

	if cfg.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			add("metrics.path", "metrics path %q must start with /", cfg.Metrics.Path)
		}
		if cfg.Metrics.Namespace == "" {
			add("metrics.namespace", "metrics namespace is required when metrics are enabled")
		}
	}
	buckets := cfg.Metrics.TokenFetchBuckets
	for i, b := range buckets {
		if b <= 0 || (i > 0 && b <= buckets[i-1]) {
			add("metrics.token_fetch_buckets", "buckets must be positive and strictly increasing")
			break
		}
	}

	if msg := oneOf(cfg.Tracing.Sampler, samplers); msg != "" {
		add("tracing.sampler", "sampler %s", msg)
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		add("tracing.endpoint", "tracing endpoint is required when tracing is enabled")
	}
	if r := cfg.Tracing.SampleRatio; r < 0 || r > 1 {
		add("tracing.sample_ratio", "sample ratio %v is outside [0, 1]", r)
	}
	if cfg.Tracing.TimeoutMS < 0 {
		add("tracing.timeout_ms", "timeout must be non-negative")
	}

	return errs
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
	samplers   = []string{"always", "never", "ratio", "parent_based"}
)

// oneOf returns "" when value is one of allowed, otherwise the tail of an
// error message.
func oneOf(value string, allowed []string) string {
	if value == "" {
		return "is required"
	}
	if slices.Contains(allowed, value) {
		return ""
	}
	return fmt.Sprintf("%q is not one of %s", value, strings.Join(allowed, ", "))
}

// checkHTTPURL returns a message describing why raw is not an absolute
// http(s) URL, or "" when it is.
func checkHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL format: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("URL %q has no host", raw)
	}
	return ""
}
