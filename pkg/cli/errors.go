package cli

import (
	"errors"
	"fmt"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/providers"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 3
	ExitAuth   = 4
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to the process exit code.
//
// Configuration problems exit with ExitConfig, missing or unusable
// credentials with ExitAuth and everything else with ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cliCfgErr  *ConfigError
		provCfgErr *providers.ConfigError
		validation config.ValidationError
		missingEnv *providers.MissingEnvVarError
		credErr    *credentials.CredentialError
	)
	switch {
	case errors.As(err, &missingEnv), errors.As(err, &credErr), errors.Is(err, credentials.ErrLoginExpired):
		return ExitAuth
	case errors.As(err, &cliCfgErr), errors.As(err, &provCfgErr), errors.As(err, &validation):
		return ExitConfig
	default:
		return ExitError
	}
}
