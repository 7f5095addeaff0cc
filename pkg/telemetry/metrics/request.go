package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchboard/pkg/config"
)

// RequestMetrics tracks request assembly.
//
// Metrics:
//   - switchboard_providers_requests_built_total: Requests built by provider, wire API and auth source
//   - switchboard_providers_build_errors_total: Failed builds by provider and error type
type RequestMetrics struct {
	// Successful builds
	built *prometheus.CounterVec

	// Failed builds
	errors *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		built: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_built_total",
				Help:      "Total number of provider requests built",
			},
			[]string{"provider", "wire_api", "auth_source"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "build_errors_total",
				Help:      "Total number of failed request builds by error type",
			},
			[]string{"provider", "error_type"},
		),
	}

	registry.MustRegister(rm.built, rm.errors)

	return rm
}

// RecordBuilt increments the built counter.
func (rm *RequestMetrics) RecordBuilt(provider, wireAPI, authSource string) {
	rm.built.WithLabelValues(provider, wireAPI, authSource).Inc()
}

// RecordError increments the error counter.
func (rm *RequestMetrics) RecordError(provider, errorType string) {
	rm.errors.WithLabelValues(provider, errorType).Inc()
}
