package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/switchboard/internal/testutil"
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/environment"
)

type recordedBuild struct {
	provider string
	wire     WireAPI
	source   AuthSource
}

type fakeRecorder struct {
	mu          sync.Mutex
	builds      []recordedBuild
	errors      []string
	tokenFetchs []credentials.AuthMode
}

func (r *fakeRecorder) RecordBuild(provider string, wire WireAPI, source AuthSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, recordedBuild{provider, wire, source})
}

func (r *fakeRecorder) RecordBuildError(provider, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, provider+"/"+errorType)
}

func (r *fakeRecorder) ObserveTokenFetch(mode credentials.AuthMode, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokenFetchs = append(r.tokenFetchs, mode)
}

func TestRequestBuilder_Build(t *testing.T) {
	env := environment.Map{
		"ANTHROPIC_API_KEY": "sk-ant",
		"OPENAI_PROJECT":    "proj-1",
	}
	builtIns := BuiltInProviders(env, "1.0.0")

	tests := []struct {
		name        string
		info        Info
		stored      credentials.Credential
		wantURL     string
		wantAuth    string
		wantHeaders map[string]string
		wantSource  AuthSource
	}{
		{
			name:       "anthropic with env key",
			info:       builtIns[AnthropicProviderID],
			wantURL:    "https://api.anthropic.com/v1/messages",
			wantAuth:   "Bearer sk-ant",
			wantSource: AuthSourceEnvKey,
			wantHeaders: map[string]string{
				"anthropic-version": "2023-06-01",
				"x-api-key":         "sk-ant",
			},
		},
		{
			name:       "openai with managed login",
			info:       builtIns[OpenAIProviderID],
			stored:     testutil.NewFakeManagedLogin("login-token"),
			wantURL:    "https://chatgpt.com/backend-api/codex/responses",
			wantAuth:   "Bearer login-token",
			wantSource: AuthSourceStored,
			wantHeaders: map[string]string{
				"version":        "1.0.0",
				"OpenAI-Project": "proj-1",
			},
		},
		{
			name:       "openai with stored api key",
			info:       builtIns[OpenAIProviderID],
			stored:     credentials.FromAPIKey("sk-stored"),
			wantURL:    "https://api.openai.com/v1/responses",
			wantAuth:   "Bearer sk-stored",
			wantSource: AuthSourceStored,
		},
		{
			name:       "oss without credentials",
			info:       builtIns[OSSProviderID],
			wantURL:    "http://localhost:11434/v1/chat/completions",
			wantSource: AuthSourceNone,
		},
		{
			name:       "override",
			info:       Info{Name: "custom", BaseURL: "http://h/v1", BearerTokenOverride: "ovr"},
			stored:     testutil.NewFakeManagedLogin("login-token"),
			wantURL:    "http://h/v1/chat/completions",
			wantAuth:   "Bearer ovr",
			wantSource: AuthSourceOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			b := NewRequestBuilder(env, WithRecorder(rec))

			req, err := b.Build(context.Background(), tt.info, tt.stored, strings.NewReader(`{}`))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if req.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", req.Method)
			}
			if req.URL.String() != tt.wantURL {
				t.Errorf("expected url %q, got %q", tt.wantURL, req.URL.String())
			}
			if got := req.Header.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("expected Authorization %q, got %q", tt.wantAuth, got)
			}
			for name, want := range tt.wantHeaders {
				if got := req.Header.Get(name); got != want {
					t.Errorf("expected header %s=%q, got %q", name, want, got)
				}
			}

			body, _ := io.ReadAll(req.Body)
			if string(body) != `{}` {
				t.Errorf("expected body to be passed through, got %q", body)
			}

			if len(rec.builds) != 1 || rec.builds[0].source != tt.wantSource {
				t.Errorf("expected one build with source %q, got %+v", tt.wantSource, rec.builds)
			}
			wantFetches := 1
			if tt.wantSource == AuthSourceNone {
				wantFetches = 0
			}
			if len(rec.tokenFetchs) != wantFetches {
				t.Errorf("expected %d token fetches, got %d", wantFetches, len(rec.tokenFetchs))
			}
		})
	}
}

func TestRequestBuilder_AuthorizationPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		info       Info
		stored     credentials.Credential
		wantAuth   string
		wantSource AuthSource
	}{
		{
			name: "override beats static header",
			info: Info{
				Name:                "custom",
				BaseURL:             "http://h/v1",
				BearerTokenOverride: "secret",
				StaticHeaders:       map[string]string{"Authorization": "Custom abc"},
			},
			wantAuth:   "Bearer secret",
			wantSource: AuthSourceOverride,
		},
		{
			name: "stored credential beats env header",
			info: Info{
				Name:       "custom",
				BaseURL:    "http://h/v1",
				EnvHeaders: map[string]string{"Authorization": "CUSTOM_AUTH"},
			},
			stored:     testutil.NewFakeAPIKey("sk-stored"),
			wantAuth:   "Bearer sk-stored",
			wantSource: AuthSourceStored,
		},
		{
			name: "static header kept without credential",
			info: Info{
				Name:          "custom",
				BaseURL:       "http://h/v1",
				StaticHeaders: map[string]string{"Authorization": "Custom abc"},
			},
			wantAuth:   "Custom abc",
			wantSource: AuthSourceNone,
		},
	}

	env := environment.Map{"CUSTOM_AUTH": "Token from-env"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			req, err := NewRequestBuilder(env, WithRecorder(rec)).Build(context.Background(), tt.info, tt.stored, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := req.Header.Values("Authorization"); len(got) != 1 || got[0] != tt.wantAuth {
				t.Errorf("expected Authorization [%q], got %q", tt.wantAuth, got)
			}
			if len(rec.builds) != 1 || rec.builds[0].source != tt.wantSource {
				t.Errorf("expected source %q, got %+v", tt.wantSource, rec.builds)
			}
		})
	}
}

func TestRequestBuilder_MissingEnvKey(t *testing.T) {
	rec := &fakeRecorder{}
	b := NewRequestBuilder(environment.Map{}, WithRecorder(rec))

	info := NewGoogleGenAIProvider(environment.Map{})
	_, err := b.Build(context.Background(), info, nil, nil)

	missing := testutil.AssertErrorAs[*MissingEnvVarError](t, err)
	if missing.Var != "GOOGLE_GENAI_API_KEY" {
		t.Errorf("expected var GOOGLE_GENAI_API_KEY, got %q", missing.Var)
	}
	if !strings.Contains(missing.Error(), "aistudio.google.com") {
		t.Errorf("expected instructions in error, got %q", missing.Error())
	}
	if len(rec.errors) != 1 || rec.errors[0] != "Google GenAI/"+ErrorTypeMissingEnvVar {
		t.Errorf("unexpected recorded errors: %v", rec.errors)
	}
}

func TestRequestBuilder_MissingEnvKeyAbsorbed(t *testing.T) {
	stored := testutil.NewFakeAPIKey("sk-stored")
	info := Info{Name: "custom", BaseURL: "http://h", EnvKey: "CUSTOM_KEY"}

	req, err := NewRequestBuilder(environment.Map{}).Build(context.Background(), info, stored, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get("Authorization") != "Bearer sk-stored" {
		t.Errorf("expected stored credential, got %q", req.Header.Get("Authorization"))
	}

	strict := NewRequestBuilder(environment.Map{}, WithStrictEnvKey(true))
	if _, err := strict.Build(context.Background(), info, stored, nil); !errors.Is(err, ErrMissingEnvVar) {
		t.Errorf("expected missing env var error in strict mode, got %v", err)
	}
}

func TestRequestBuilder_CredentialError(t *testing.T) {
	t.Run("plain error is wrapped", func(t *testing.T) {
		stored := &testutil.FakeCredential{AuthMode: credentials.ModeManagedLogin, Err: errors.New("boom")}
		rec := &fakeRecorder{}

		_, err := NewRequestBuilder(environment.Map{}, WithRecorder(rec)).
			Build(context.Background(), Info{Name: "OpenAI", WireAPI: WireAPIResponses}, stored, nil)

		credErr := testutil.AssertErrorAs[*credentials.CredentialError](t, err)
		if credErr.Mode != credentials.ModeManagedLogin {
			t.Errorf("expected managed mode, got %q", credErr.Mode)
		}
		if len(rec.errors) != 1 || rec.errors[0] != "OpenAI/"+ErrorTypeCredential {
			t.Errorf("unexpected recorded errors: %v", rec.errors)
		}
	})

	t.Run("credential error is propagated", func(t *testing.T) {
		expired := &credentials.CredentialError{Mode: credentials.ModeManagedLogin, Message: "expired", Cause: credentials.ErrLoginExpired}
		stored := &testutil.FakeCredential{AuthMode: credentials.ModeManagedLogin, Err: expired}

		_, err := NewRequestBuilder(environment.Map{}).Build(context.Background(), Info{Name: "OpenAI"}, stored, nil)
		if !errors.Is(err, credentials.ErrLoginExpired) {
			t.Errorf("expected ErrLoginExpired, got %v", err)
		}
	})
}

func TestRequestBuilder_Cancellation(t *testing.T) {
	stored := testutil.NewFakeManagedLogin("never")
	stored.Block = make(chan struct{})

	testutil.WithTimeout(t, 2*time.Second, func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err := NewRequestBuilder(environment.Map{}).Build(ctx, Info{Name: "OpenAI"}, stored, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRequestBuilder_InvalidBaseURL(t *testing.T) {
	_, err := NewRequestBuilder(environment.Map{}).
		Build(context.Background(), Info{Name: "broken", BaseURL: "http://[::1"}, nil, nil)

	cfgErr := testutil.AssertErrorAs[*ConfigError](t, err)
	if cfgErr.Field != "base_url" {
		t.Errorf("expected field base_url, got %q", cfgErr.Field)
	}
}

func TestRequestBuilder_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	b := NewRequestBuilder(environment.Map{}, WithTracer(tp.Tracer("test")))

	if _, err := b.Build(context.Background(), NewOSSProviderWithBaseURL("http://h/v1"), nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Build(context.Background(), Info{Name: "needs-key", EnvKey: "MISSING"}, nil, nil); err == nil {
		t.Fatal("expected error")
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrProvider] != "gpt-oss" || attrs[AttrWireAPI] != "chat" || attrs[AttrAuthSource] != "none" {
		t.Errorf("unexpected span attributes: %v", attrs)
	}
	if attrs[AttrBuildID] == "" {
		t.Error("expected build id attribute")
	}

	if spans[1].Status().Code != codes.Error {
		t.Errorf("expected error status on failed build, got %v", spans[1].Status())
	}
}
