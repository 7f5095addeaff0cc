// Package tracing wires OpenTelemetry tracing for switchboard.
//
// When telemetry.tracing.enabled is set, spans are exported over OTLP/gRPC
// to telemetry.tracing.endpoint. Otherwise New returns a noop tracer so
// callers never branch on configuration.
//
// # Sampling
//
// Four strategies are supported:
//   - always: sample every trace
//   - never: sample nothing
//   - ratio: sample a fraction of traces by trace id
//   - parent_based: follow the incoming sampling decision, ratio for roots
//
// # Propagation
//
// The W3C Trace Context and Baggage propagator is installed globally even
// when tracing is disabled, so a traceparent handed to the CLI reaches the
// built provider request unchanged.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version.Version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx = tracing.ContextWithTraceParent(ctx, traceparent)
//	ctx, span := tracer.Start(ctx, "switchboard.providers.request")
//	defer span.End()
package tracing
