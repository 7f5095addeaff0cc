// Package testutil holds fakes and assertions shared by the switchboard tests.
package testutil

import (
	"context"
	"sync"

	"mercator-hq/switchboard/pkg/credentials"
)

// FakeCredential is a credentials.Credential that returns a fixed token or
// error and counts how often it was asked.
type FakeCredential struct {
	AuthMode credentials.AuthMode
	Token    string
	Err      error

	// Block, when non-nil, makes BearerToken wait for it to be closed or for
	// the context to end.
	Block chan struct{}

	mu    sync.Mutex
	calls int
}

// NewFakeAPIKey returns a fake API key credential.
func NewFakeAPIKey(token string) *FakeCredential {
	return &FakeCredential{AuthMode: credentials.ModeAPIKey, Token: token}
}

// NewFakeManagedLogin returns a fake managed login credential.
func NewFakeManagedLogin(token string) *FakeCredential {
	return &FakeCredential{AuthMode: credentials.ModeManagedLogin, Token: token}
}

// Mode implements credentials.Credential.
func (f *FakeCredential) Mode() credentials.AuthMode {
	return f.AuthMode
}

// BearerToken implements credentials.Credential.
func (f *FakeCredential) BearerToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Token, nil
}

// Calls returns how many times BearerToken was called.
func (f *FakeCredential) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
