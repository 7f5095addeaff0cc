package credentials

import (
	"context"
	"errors"
	"testing"
)

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		input   string
		want    AuthMode
		wantErr bool
	}{
		{"", "", false},
		{"apikey", ModeAPIKey, false},
		{"API_KEY", ModeAPIKey, false},
		{" managed ", ModeManagedLogin, false},
		{"chatgpt", ModeManagedLogin, false},
		{"kerberos", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAuthMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAuthMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAPIKey_BearerToken(t *testing.T) {
	key := FromAPIKey("sk-test-123")
	if key.Mode() != ModeAPIKey {
		t.Errorf("expected mode %q, got %q", ModeAPIKey, key.Mode())
	}

	token, err := key.BearerToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "sk-test-123" {
		t.Errorf("expected token sk-test-123, got %q", token)
	}
}

func TestAPIKey_Empty(t *testing.T) {
	_, err := FromAPIKey("  ").BearerToken(context.Background())
	if err == nil {
		t.Fatal("expected error for blank key")
	}

	var credErr *CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *CredentialError, got %T", err)
	}
	if credErr.Mode != ModeAPIKey {
		t.Errorf("expected mode %q, got %q", ModeAPIKey, credErr.Mode)
	}
}

func TestAPIKey_StringMasks(t *testing.T) {
	if got := FromAPIKey("sk-secret-value").String(); got != "sk-s***" {
		t.Errorf("expected masked key, got %q", got)
	}
	if got := FromAPIKey("abc").String(); got != "***" {
		t.Errorf("expected fully masked short key, got %q", got)
	}
}

func TestIsManaged(t *testing.T) {
	if IsManaged(nil) {
		t.Error("nil credential must not be managed")
	}
	if IsManaged(FromAPIKey("k")) {
		t.Error("api key must not be managed")
	}
	if !IsManaged(NewManagedLogin(Tokens{AccessToken: "a"}, RefreshConfig{}, nil)) {
		t.Error("managed login must be managed")
	}
}

func TestCredentialError_Unwrap(t *testing.T) {
	err := &CredentialError{Mode: ModeManagedLogin, Message: "expired", Cause: ErrLoginExpired}
	if !errors.Is(err, ErrLoginExpired) {
		t.Error("expected errors.Is to find ErrLoginExpired")
	}
	want := "managed credential error: expired: managed login expired"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
