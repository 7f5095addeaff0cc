package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/switchboard/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "disabled tracing",
			config: &config.TracingConfig{
				Enabled:     false,
				ServiceName: "switchboard-test",
			},
		},
		{
			name: "enabled with always sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				TimeoutMS:   1000,
				ServiceName: "switchboard-test",
			},
		},
		{
			name: "enabled with parent based sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerParentBased,
				SampleRatio: 0.25,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				ServiceName: "switchboard-test",
			},
		},
		{
			name: "invalid sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     "sometimes",
				Endpoint:    "localhost:4317",
				ServiceName: "switchboard-test",
			},
			wantErr: true,
		},
		{
			name: "ratio out of range",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerRatio,
				SampleRatio: 2,
				Endpoint:    "localhost:4317",
				ServiceName: "switchboard-test",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tracer.Enabled() != tt.config.Enabled {
				t.Errorf("expected Enabled() %v, got %v", tt.config.Enabled, tracer.Enabled())
			}
			if err := tracer.Shutdown(context.Background()); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
		})
	}
}

func TestNew_InstallsPropagatorWhenDisabled(t *testing.T) {
	otel.SetTextMapPropagator(nil)

	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer tracer.Shutdown(context.Background())

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected global propagator to handle traceparent, fields %v", fields)
	}
}

func TestTracer_DisabledStartsNoopSpans(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, span := tracer.Start(context.Background(), "switchboard.test")
	defer span.End()

	if span.IsRecording() {
		t.Error("expected noop span not to record")
	}
	if TraceID(ctx) != "" {
		t.Errorf("expected empty trace id, got %q", TraceID(ctx))
	}
}

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &Tracer{
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
		enabled:  true,
	}, recorder
}

func TestSetError(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "build")
	SetError(span, errors.New("missing env var"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	got := ended[0]
	if got.Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", got.Status().Code)
	}
	if got.Status().Description != "missing env var" {
		t.Errorf("expected description %q, got %q", "missing env var", got.Status().Description)
	}
	if len(got.Events()) != 1 || got.Events()[0].Name != "exception" {
		t.Errorf("expected one exception event, got %v", got.Events())
	}
}

func TestSetError_NilIsNoop(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "build")
	SetError(span, nil)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Unset {
		t.Errorf("expected status Unset, got %v", code)
	}
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"success", nil, codes.Ok},
		{"failure", errors.New("boom"), codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, recorder := newRecordingTracer()
			defer tracer.Shutdown(context.Background())

			_, span := tracer.Start(context.Background(), "op")
			SetStatus(span, tt.err)
			span.End()

			if got := recorder.Ended()[0].Status().Code; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTracer_ChildOfTraceParent(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	defer tracer.Shutdown(context.Background())

	const tp = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	ctx := ContextWithTraceParent(context.Background(), tp)
	ctx, span := tracer.Start(ctx, "switchboard.providers.request")
	span.End()

	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected trace id from traceparent, got %q", got)
	}
	parent := recorder.Ended()[0].Parent()
	if parent.SpanID().String() != "00f067aa0ba902b7" {
		t.Errorf("expected parent span 00f067aa0ba902b7, got %s", parent.SpanID())
	}
	if !parent.IsRemote() {
		t.Error("expected remote parent")
	}
}

func TestContextWithTraceParent_Invalid(t *testing.T) {
	ctx := ContextWithTraceParent(context.Background(), "not-a-traceparent")
	if trace.SpanContextFromContext(ctx).IsValid() {
		t.Error("expected no span context for invalid traceparent")
	}
}
