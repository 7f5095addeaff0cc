// Package metrics provides Prometheus metrics for switchboard.
//
// # Metrics
//
//   - requests_built_total{provider,wire_api,auth_source}
//   - build_errors_total{provider,error_type}
//   - token_fetch_seconds{mode}
//   - catalog_reloads_total{result}
//   - catalog_rejected_providers
//
// Names carry the configured namespace and subsystem, by default
// "switchboard_providers_".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	builder := providers.NewRequestBuilder(env, providers.WithRecorder(collector))
//	cat, err := catalog.New(path, env, catalog.WithRecorder(collector))
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality Management
//
// Provider names come from user configuration. After 1,000 distinct names
// further providers are reported as "other".
package metrics
