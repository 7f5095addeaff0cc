package credentials

import (
	"context"
	"fmt"
	"strings"
)

// AuthMode identifies how a credential was obtained.
type AuthMode string

const (
	// ModeAPIKey is a static API key.
	ModeAPIKey AuthMode = "apikey"

	// ModeManagedLogin is a token obtained through the interactive login flow.
	// Requests made with it go to the managed backend instead of the public API.
	ModeManagedLogin AuthMode = "managed"
)

// ParseAuthMode parses a configured mode name. The empty string is accepted
// and means "no preference".
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "apikey", "api_key", "api-key":
		return ModeAPIKey, nil
	case "managed", "chatgpt", "login":
		return ModeManagedLogin, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (supported: apikey, managed)", s)
	}
}

// Credential is a secret that can be presented as a bearer token.
type Credential interface {
	// Mode reports how the credential was obtained.
	Mode() AuthMode

	// BearerToken returns the token to send in the Authorization header.
	// Managed logins may refresh over the network, so the call can block
	// and honors ctx cancellation.
	BearerToken(ctx context.Context) (string, error)
}

// IsManaged reports whether c is a managed login credential.
func IsManaged(c Credential) bool {
	return c != nil && c.Mode() == ModeManagedLogin
}

// APIKey is a static API key credential.
type APIKey string

// FromAPIKey wraps key as a Credential.
func FromAPIKey(key string) APIKey {
	return APIKey(key)
}

// Mode implements Credential.
func (k APIKey) Mode() AuthMode {
	return ModeAPIKey
}

// BearerToken implements Credential.
func (k APIKey) BearerToken(ctx context.Context) (string, error) {
	if strings.TrimSpace(string(k)) == "" {
		return "", &CredentialError{Mode: ModeAPIKey, Message: "api key is empty"}
	}
	return string(k), nil
}

// String masks the key so it is safe to print.
func (k APIKey) String() string {
	if len(k) <= 4 {
		return "***"
	}
	return string(k[:4]) + "***"
}
