// Package config provides configuration management for switchboard.
//
// This package handles loading, validating, and managing configuration from
// YAML, JSON or TOML files with environment variable overrides. The format is
// chosen by file extension (.yaml, .yml, .json, .toml).
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a file only:
//     cfg, err := config.LoadConfig("switchboard.yaml")
//
//  2. From a file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("switchboard.yaml", environment.Capture())
//
// # Provider Definitions
//
// Providers are declared under model_providers, keyed by id:
//
//	model_providers:
//	  azure:
//	    name: Azure
//	    base_url: https://example.openai.azure.com/openai
//	    env_key: AZURE_OPENAI_API_KEY
//	    wire_api: responses
//	    query_params:
//	      api-version: 2025-04-01-preview
//
// Each entry is decoded on its own. A malformed entry (an unknown wire_api,
// a missing name) is dropped and reported, while the remaining entries and
// settings still load. Callers receive a usable Config together with an
// error; ProviderErrors lists the rejected entries.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SWITCHBOARD_SECTION_FIELD.
// For example:
//
//   - SWITCHBOARD_MODEL_PROVIDER overrides model_provider
//   - SWITCHBOARD_AUTH_FILE overrides auth.file
//   - SWITCHBOARD_LOG_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the configuration file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., provider names)
//   - Format validation (e.g., base URLs must be absolute http(s) URLs)
//   - Enumerations (e.g., logging level, tracing sampler, auth mode)
//   - Range validation (e.g., sample ratio must be 0.0-1.0)
//
// Validation errors include the field path and a descriptive message:
//
//	configuration validation failed: telemetry.logging.level: invalid logging level "verbose": must be 'debug', 'info', 'warn', or 'error'
package config
