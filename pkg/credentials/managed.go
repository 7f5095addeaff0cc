package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Tokens is the persisted form of a managed login.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	AccountID    string    `json:"account_id,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// RefreshConfig configures refreshing of managed login tokens.
// Refresh is disabled when TokenURL is empty.
type RefreshConfig struct {
	TokenURL string
	ClientID string
}

// ManagedLogin is a Credential backed by an OAuth access token.
//
// Expired tokens are refreshed with the refresh token when refreshing is
// configured. Otherwise an expired login fails with ErrLoginExpired.
// ManagedLogin is safe for concurrent use.
type ManagedLogin struct {
	mu        sync.Mutex
	token     *oauth2.Token
	idToken   string
	accountID string
	oauth     *oauth2.Config
	onRefresh func(Tokens)
}

// NewManagedLogin creates a managed login credential.
//
// When tokens.Expiry is zero the expiry is read from the access token's "exp"
// claim if the token is a JWT. Opaque tokens without a known expiry never
// expire locally. onRefresh, if non-nil, is called with the new tokens after
// every successful refresh.
func NewManagedLogin(tokens Tokens, refresh RefreshConfig, onRefresh func(Tokens)) *ManagedLogin {
	expiry := tokens.Expiry
	if expiry.IsZero() {
		if exp, err := AccessTokenExpiry(tokens.AccessToken); err == nil {
			expiry = exp
		}
	}

	m := &ManagedLogin{
		token: &oauth2.Token{
			AccessToken:  tokens.AccessToken,
			TokenType:    "Bearer",
			RefreshToken: tokens.RefreshToken,
			Expiry:       expiry,
		},
		idToken:   tokens.IDToken,
		accountID: tokens.AccountID,
		onRefresh: onRefresh,
	}
	if refresh.TokenURL != "" {
		m.oauth = &oauth2.Config{
			ClientID: refresh.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  refresh.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}
	return m
}

// Mode implements Credential.
func (m *ManagedLogin) Mode() AuthMode {
	return ModeManagedLogin
}

// BearerToken implements Credential. It refreshes the access token when it
// has expired and refreshing is possible.
func (m *ManagedLogin) BearerToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.Valid() {
		return m.token.AccessToken, nil
	}

	if m.oauth == nil || m.token.RefreshToken == "" {
		return "", &CredentialError{
			Mode:    ModeManagedLogin,
			Message: "access token expired and cannot be refreshed; sign in again",
			Cause:   ErrLoginExpired,
		}
	}

	refreshed, err := m.oauth.TokenSource(ctx, m.token).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == http.StatusBadRequest || retrieveErr.Response.StatusCode == http.StatusUnauthorized) {
			err = fmt.Errorf("%w: %v", ErrLoginExpired, err)
		}
		return "", &CredentialError{
			Mode:    ModeManagedLogin,
			Message: "refreshing access token",
			Cause:   err,
		}
	}

	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = m.token.RefreshToken
	}
	if id, ok := refreshed.Extra("id_token").(string); ok && id != "" {
		m.idToken = id
	}
	m.token = refreshed

	if m.onRefresh != nil {
		m.onRefresh(m.tokensLocked())
	}

	return refreshed.AccessToken, nil
}

// Expiry returns the expiry of the current access token. The zero time means
// the expiry is unknown.
func (m *ManagedLogin) Expiry() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token.Expiry
}

// AccountID returns the account the login belongs to, if known.
func (m *ManagedLogin) AccountID() string {
	return m.accountID
}

// Tokens returns the current tokens in persisted form.
func (m *ManagedLogin) Tokens() Tokens {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokensLocked()
}

func (m *ManagedLogin) tokensLocked() Tokens {
	return Tokens{
		AccessToken:  m.token.AccessToken,
		RefreshToken: m.token.RefreshToken,
		IDToken:      m.idToken,
		AccountID:    m.accountID,
		Expiry:       m.token.Expiry,
	}
}

// AccessTokenExpiry extracts the "exp" claim from a JWT access token without
// verifying its signature. It returns the zero time when the token carries no
// expiry.
func AccessTokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
