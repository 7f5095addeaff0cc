package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mercator-hq/switchboard/pkg/environment"
	"mercator-hq/switchboard/pkg/providers"
)

// Format is a configuration document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported configuration file extension %q (use .yaml, .yml, .json or .toml)", filepath.Ext(path))
	}
}

// LoadConfig loads configuration from the file at path. The format is chosen
// by extension. Defaults are applied and the result is validated. The
// configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
//
// An invalid provider definition does not prevent the rest of the file from
// loading: the returned Config holds every valid provider and the returned
// error describes the rejected ones (see ProviderErrors). Any other failure
// returns a nil Config.
func LoadConfig(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, providerErr := Parse(data, format)
	if cfg == nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, providerErr)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, providerErr
}

// LoadConfigWithEnvOverrides loads configuration from a file and applies
// environment variable overrides read from env. An empty path loads the
// defaults. Environment variables always take precedence over file-based
// configuration.
//
// The loading sequence is:
// 1. Load the document from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string, env environment.Env) (*Config, error) {
	cfg := Default()
	var providerErr error
	if path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if cfg == nil {
			return nil, err
		}
		providerErr = err
	}

	ApplyEnvOverrides(cfg, env)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, providerErr
}

// Parse decodes a configuration document and applies defaults.
//
// Each model_providers entry is decoded and checked on its own. Entries that
// fail are left out of the result and reported as *providers.ConfigError
// values joined into the returned error. A document that cannot be parsed at
// all returns a nil Config and a *providers.ConfigError.
func Parse(data []byte, format Format) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}

	var (
		cfg     *Config
		entries map[string]entryDecoder
		err     error
	)
	switch format {
	case FormatYAML:
		cfg, entries, err = parseYAML(data)
	case FormatJSON:
		cfg, entries, err = parseJSON(data)
	case FormatTOML:
		cfg, entries, err = parseTOML(data)
	default:
		return nil, &providers.ConfigError{Message: fmt.Sprintf("unsupported configuration format %q", format)}
	}
	if err != nil {
		return nil, &providers.ConfigError{Message: fmt.Sprintf("invalid %s document", format), Cause: err}
	}

	errs := decodeProviders(cfg, entries)
	ApplyDefaults(cfg)

	return cfg, errors.Join(errs...)
}

// ProviderErrors returns the provider definition errors contained in err.
//
// Entries rejected by Parse arrive joined, and every *providers.ConfigError
// among them is returned, including one for an entry whose id is empty. A
// lone error outside a join counts only when it names a provider, since a
// document-level failure is also a *providers.ConfigError.
func ProviderErrors(err error) []*providers.ConfigError {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*providers.ConfigError
		for _, e := range joined.Unwrap() {
			var cfgErr *providers.ConfigError
			if errors.As(e, &cfgErr) {
				out = append(out, cfgErr)
			}
		}
		return out
	}

	var cfgErr *providers.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Provider != "" {
		return []*providers.ConfigError{cfgErr}
	}
	return nil
}

// document mirrors Config with model_providers left undecoded, so that every
// provider entry can be decoded and rejected independently.
type document[R any] struct {
	ModelProvider  string          `yaml:"model_provider" json:"model_provider" toml:"model_provider"`
	ModelProviders map[string]R    `yaml:"model_providers" json:"model_providers" toml:"model_providers"`
	Auth           AuthConfig      `yaml:"auth" json:"auth" toml:"auth"`
	Telemetry      TelemetryConfig `yaml:"telemetry" json:"telemetry" toml:"telemetry"`
}

func newDocument[R any]() *document[R] {
	d := Default()
	return &document[R]{
		ModelProvider: d.ModelProvider,
		Auth:          d.Auth,
		Telemetry:     d.Telemetry,
	}
}

func (d *document[R]) config() *Config {
	return &Config{
		ModelProvider: d.ModelProvider,
		Auth:          d.Auth,
		Telemetry:     d.Telemetry,
	}
}

type entryDecoder func(*providers.Info) error

func parseYAML(data []byte) (*Config, map[string]entryDecoder, error) {
	doc := newDocument[yaml.Node]()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, nil, err
	}

	entries := make(map[string]entryDecoder, len(doc.ModelProviders))
	for id, node := range doc.ModelProviders {
		entries[id] = func(info *providers.Info) error {
			return node.Decode(info)
		}
	}
	return doc.config(), entries, nil
}

func parseJSON(data []byte) (*Config, map[string]entryDecoder, error) {
	doc := newDocument[json.RawMessage]()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, nil, err
	}

	entries := make(map[string]entryDecoder, len(doc.ModelProviders))
	for id, raw := range doc.ModelProviders {
		entries[id] = func(info *providers.Info) error {
			return json.Unmarshal(raw, info)
		}
	}
	return doc.config(), entries, nil
}

func parseTOML(data []byte) (*Config, map[string]entryDecoder, error) {
	doc := newDocument[toml.Primitive]()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(doc)
	if err != nil {
		return nil, nil, err
	}

	entries := make(map[string]entryDecoder, len(doc.ModelProviders))
	for id, prim := range doc.ModelProviders {
		entries[id] = func(info *providers.Info) error {
			return md.PrimitiveDecode(prim, info)
		}
	}
	return doc.config(), entries, nil
}

func decodeProviders(cfg *Config, entries map[string]entryDecoder) []error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	cfg.ModelProviders = make(map[string]providers.Info, len(entries))
	var errs []error
	for _, id := range ids {
		var info providers.Info
		if err := entries[id](&info); err != nil {
			errs = append(errs, providerError(id, err))
			continue
		}
		if err := ValidateProvider(id, info); err != nil {
			errs = append(errs, err)
			continue
		}
		cfg.ModelProviders[id] = info
	}
	return errs
}

func providerError(id string, err error) error {
	var cfgErr *providers.ConfigError
	if errors.As(err, &cfgErr) {
		e := *cfgErr
		e.Provider = id
		return &e
	}
	return &providers.ConfigError{Provider: id, Message: "invalid provider definition", Cause: err}
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format SWITCHBOARD_SECTION_FIELD.
// An empty auth.file is replaced by DefaultAuthFile.
func ApplyEnvOverrides(cfg *Config, env environment.Env) {
	if env == nil {
		env = environment.Map{}
	}

	if val, ok := lookup(env, "SWITCHBOARD_MODEL_PROVIDER"); ok {
		cfg.ModelProvider = val
	}

	// Auth overrides
	if val, ok := lookup(env, "SWITCHBOARD_AUTH_FILE"); ok {
		cfg.Auth.File = val
	}
	if val, ok := lookup(env, "SWITCHBOARD_AUTH_PREFERRED_MODE"); ok {
		cfg.Auth.PreferredMode = val
	}
	if val, ok := lookup(env, "SWITCHBOARD_AUTH_STRICT_ENV_KEY"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.StrictEnvKey = b
		}
	}
	if val, ok := lookup(env, "SWITCHBOARD_AUTH_WATCH"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.Watch = b
		}
	}
	if cfg.Auth.File == "" {
		cfg.Auth.File = DefaultAuthFile(env)
	}

	// Telemetry overrides
	if val, ok := lookup(env, "SWITCHBOARD_LOG_LEVEL"); ok {
		cfg.Telemetry.Logging.Level = val
	}
	if val, ok := lookup(env, "SWITCHBOARD_LOG_FORMAT"); ok {
		cfg.Telemetry.Logging.Format = val
	}
	if val, ok := lookup(env, "SWITCHBOARD_METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val, ok := lookup(env, "SWITCHBOARD_METRICS_LISTEN_ADDRESS"); ok {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val, ok := lookup(env, "SWITCHBOARD_TRACING_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val, ok := lookup(env, "SWITCHBOARD_TRACING_ENDPOINT"); ok {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

func lookup(env environment.Env, name string) (string, bool) {
	val, ok := env.Lookup(name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}
