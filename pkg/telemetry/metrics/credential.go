package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchboard/pkg/config"
)

// CredentialMetrics tracks bearer token retrieval.
//
// Metrics:
//   - switchboard_providers_token_fetch_seconds: Time spent obtaining a bearer token, by auth mode
type CredentialMetrics struct {
	fetch *prometheus.HistogramVec
}

// NewCredentialMetrics creates and registers credential metrics with the provided registry.
func NewCredentialMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CredentialMetrics {
	cm := &CredentialMetrics{
		fetch: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "token_fetch_seconds",
				Help:      "Time spent obtaining a bearer token in seconds",
				Buckets:   cfg.TokenFetchBuckets,
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(cm.fetch)

	return cm
}

// ObserveFetch records one token retrieval.
func (cm *CredentialMetrics) ObserveFetch(mode string, d time.Duration) {
	cm.fetch.WithLabelValues(mode).Observe(d.Seconds())
}
