package providers

import (
	"errors"
	"fmt"
)

// ErrMissingEnvVar is matched by every *MissingEnvVarError.
var ErrMissingEnvVar = errors.New("missing environment variable")

// MissingEnvVarError reports that the environment variable named by a
// provider's env_key is unset or blank.
type MissingEnvVarError struct {
	// Var is the name of the missing environment variable
	Var string

	// Instructions tells the user how to obtain a value (may be empty)
	Instructions string
}

// Error implements the error interface.
func (e *MissingEnvVarError) Error() string {
	if e.Instructions != "" {
		return fmt.Sprintf("missing environment variable %q: %s", e.Var, e.Instructions)
	}
	return fmt.Sprintf("missing environment variable %q", e.Var)
}

// Is reports whether target is ErrMissingEnvVar.
func (e *MissingEnvVarError) Is(target error) bool {
	return target == ErrMissingEnvVar
}

// ConfigError represents a provider configuration error.
// This occurs when a provider definition is malformed or a provider id is
// unknown.
type ConfigError struct {
	// Provider is the id of the provider with invalid configuration (may be
	// empty when the provider is not known yet)
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	switch {
	case e.Provider != "" && e.Field != "":
		return fmt.Sprintf("provider %q configuration error for field %q: %s", e.Provider, e.Field, msg)
	case e.Provider != "":
		return fmt.Sprintf("provider %q configuration error: %s", e.Provider, msg)
	case e.Field != "":
		return fmt.Sprintf("configuration error for field %q: %s", e.Field, msg)
	default:
		return "configuration error: " + msg
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
