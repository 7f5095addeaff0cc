package providers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/environment"
)

// Span attribute keys set by RequestBuilder.
const (
	AttrProvider   = "switchboard.provider"
	AttrWireAPI    = "switchboard.wire_api"
	AttrAuthSource = "switchboard.auth_source"
	AttrBuildID    = "switchboard.build_id"
	AttrErrorType  = "switchboard.error.type"
)

// Error types reported to the BuildRecorder.
const (
	ErrorTypeMissingEnvVar = "missing_env_var"
	ErrorTypeCredential    = "credential"
	ErrorTypeInvalidURL    = "invalid_url"
)

// Tracer starts spans. *tracing.Tracer and any OpenTelemetry trace.Tracer
// satisfy it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// BuildRecorder receives request build outcomes, typically for metrics.
type BuildRecorder interface {
	RecordBuild(provider string, wire WireAPI, source AuthSource)
	RecordBuildError(provider, errorType string)
	ObserveTokenFetch(mode credentials.AuthMode, d time.Duration)
}

// RequestBuilder turns a provider description into a ready-to-send HTTP
// request. It performs no network I/O itself except through the credential
// it is given, which may refresh a managed login.
//
// A RequestBuilder is immutable and safe for concurrent use.
type RequestBuilder struct {
	env      environment.Env
	logger   *slog.Logger
	tracer   Tracer
	recorder BuildRecorder
	opts     ResolveOptions
}

// BuilderOption configures a RequestBuilder.
type BuilderOption func(*RequestBuilder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *RequestBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTracer sets the tracer used for build spans.
func WithTracer(tracer Tracer) BuilderOption {
	return func(b *RequestBuilder) {
		if tracer != nil {
			b.tracer = tracer
		}
	}
}

// WithRecorder sets the recorder notified of every build.
func WithRecorder(r BuildRecorder) BuilderOption {
	return func(b *RequestBuilder) {
		b.recorder = r
	}
}

// WithStrictEnvKey makes a declared but unset env_key fatal even when a
// stored credential is available.
func WithStrictEnvKey(strict bool) BuilderOption {
	return func(b *RequestBuilder) {
		b.opts.StrictEnvKey = strict
	}
}

// NewRequestBuilder creates a RequestBuilder reading API keys and header
// values from env.
func NewRequestBuilder(env environment.Env, opts ...BuilderOption) *RequestBuilder {
	b := &RequestBuilder{
		env:    env,
		logger: slog.Default(),
		tracer: otel.Tracer("mercator-hq/switchboard/providers"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build prepares a POST request to the provider described by info.
//
// The credential is resolved with ResolveAuth; stored is the externally
// stored credential, or nil. When a credential is selected its bearer token
// is fetched (which may block on a token refresh and honors ctx) and sent as
// "Authorization: Bearer <token>". The provider's static and environment
// headers are applied before that, so an Authorization header among them is
// sent only when no credential is selected. The trace context of ctx is
// injected last.
//
// Errors are a *MissingEnvVarError, a *credentials.CredentialError or a
// *ConfigError for a base URL that does not parse.
func (b *RequestBuilder) Build(ctx context.Context, info Info, stored credentials.Credential, body io.Reader) (*http.Request, error) {
	buildID := uuid.NewString()
	ctx, span := b.tracer.Start(ctx, "providers.build_request",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrProvider, info.Name),
			attribute.String(AttrWireAPI, info.WireAPI.String()),
			attribute.String(AttrBuildID, buildID),
		),
	)
	defer span.End()

	logger := b.logger.With("build_id", buildID, "provider", info.Name)

	decision, err := ResolveAuth(info, b.env, stored, b.opts)
	if err != nil {
		b.fail(span, info, ErrorTypeMissingEnvVar, err)
		logger.WarnContext(ctx, "no credential for provider", "error", err)
		return nil, err
	}
	if decision.Absorbed != nil {
		logger.WarnContext(ctx, "env key unavailable, using stored credential",
			"error", decision.Absorbed,
			"mode", decision.Credential.Mode(),
		)
	}
	span.SetAttributes(attribute.String(AttrAuthSource, string(decision.Source)))

	url := info.FullURL(decision.Credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		cfgErr := &ConfigError{Provider: info.Name, Field: "base_url", Message: "cannot build request url", Cause: err}
		b.fail(span, info, ErrorTypeInvalidURL, cfgErr)
		return nil, cfgErr
	}

	info.ApplyHeaders(req.Header, b.env)

	// A selected credential owns Authorization; provider headers only fill
	// it in when no credential applies.
	if decision.Credential != nil {
		token, err := b.bearerToken(ctx, decision.Credential)
		if err != nil {
			b.fail(span, info, ErrorTypeCredential, err)
			logger.ErrorContext(ctx, "failed to obtain bearer token", "error", err)
			return nil, err
		}
		if _, ok := req.Header["Authorization"]; ok {
			logger.DebugContext(ctx, "provider Authorization header replaced by credential", "auth_source", decision.Source)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if b.recorder != nil {
		b.recorder.RecordBuild(info.Name, info.WireAPI, decision.Source)
	}
	logger.DebugContext(ctx, "request built",
		"url", url,
		"wire_api", info.WireAPI.String(),
		"auth_source", decision.Source,
	)

	return req, nil
}

func (b *RequestBuilder) bearerToken(ctx context.Context, cred credentials.Credential) (string, error) {
	start := time.Now()
	token, err := cred.BearerToken(ctx)
	if b.recorder != nil {
		b.recorder.ObserveTokenFetch(cred.Mode(), time.Since(start))
	}
	if err == nil {
		return token, nil
	}

	var credErr *credentials.CredentialError
	if errors.As(err, &credErr) {
		return "", err
	}
	return "", &credentials.CredentialError{Mode: cred.Mode(), Message: "obtaining bearer token", Cause: err}
}

func (b *RequestBuilder) fail(span trace.Span, info Info, errorType string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	if b.recorder != nil {
		b.recorder.RecordBuildError(info.Name, errorType)
	}
}
