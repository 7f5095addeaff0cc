// Package telemetry groups the observability packages of switchboard.
//
//   - logging: slog loggers with secret redaction and context attributes
//   - metrics: Prometheus counters and histograms for request building,
//     token fetches and catalog reloads
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness and readiness probes for the watch command
//
// Each package is configured from the telemetry section of the
// configuration file and can be used on its own.
package telemetry
