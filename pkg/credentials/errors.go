package credentials

import (
	"errors"
	"fmt"
)

// ErrLoginExpired indicates that a managed login can no longer produce a token
// and the user has to sign in again.
var ErrLoginExpired = errors.New("managed login expired")

// CredentialError represents a failure to obtain a bearer token from a
// credential.
type CredentialError struct {
	// Mode is the mode of the credential that failed
	Mode AuthMode

	// Message describes the failure
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s credential error: %s: %v", e.Mode, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s credential error: %s", e.Mode, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *CredentialError) Unwrap() error {
	return e.Cause
}
