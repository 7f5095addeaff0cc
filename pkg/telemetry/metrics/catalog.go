package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchboard/pkg/config"
)

// CatalogMetrics tracks configuration reloads.
//
// Metrics:
//   - switchboard_providers_catalog_reloads_total: Reload attempts by result
//   - switchboard_providers_catalog_rejected_providers: Provider definitions left out by the last successful reload
type CatalogMetrics struct {
	reloads  *prometheus.CounterVec
	rejected prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Total number of provider catalog reloads by result",
			},
			[]string{"result"},
		),

		rejected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_rejected_providers",
				Help:      "Number of provider definitions rejected by the last successful reload",
			},
		),
	}

	registry.MustRegister(cm.reloads, cm.rejected)

	return cm
}

// RecordReload records one reload attempt.
func (cm *CatalogMetrics) RecordReload(success bool, rejected int) {
	if !success {
		cm.reloads.WithLabelValues("failure").Inc()
		return
	}
	cm.reloads.WithLabelValues("success").Inc()
	cm.rejected.Set(float64(rejected))
}
