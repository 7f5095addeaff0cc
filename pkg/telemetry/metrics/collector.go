package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/providers"
)

// maxProviderLabels bounds the number of distinct provider label values.
const maxProviderLabels = 1000

// otherProvider replaces provider names beyond maxProviderLabels.
const otherProvider = "other"

// Collector owns the switchboard Prometheus metrics.
//
// It satisfies providers.BuildRecorder and catalog.ReloadRecorder, so it can
// be handed directly to a RequestBuilder and a Catalog. When metrics are
// disabled every method is a no-op.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics    *RequestMetrics
	credentialMetrics *CredentialMetrics
	catalogMetrics    *CatalogMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	builder := providers.NewRequestBuilder(env, providers.WithRecorder(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:             *cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(maxProviderLabels),
	}

	// Set defaults if not specified
	if c.config.Namespace == "" {
		c.config.Namespace = config.DefaultMetricsNamespace
	}
	if c.config.Subsystem == "" {
		c.config.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.config.TokenFetchBuckets) == 0 {
		c.config.TokenFetchBuckets = config.DefaultTokenFetchBuckets
	}

	c.requestMetrics = NewRequestMetrics(&c.config, registry)
	c.credentialMetrics = NewCredentialMetrics(&c.config, registry)
	c.catalogMetrics = NewCatalogMetrics(&c.config, registry)

	return c
}

// RecordBuild records a successfully built request.
func (c *Collector) RecordBuild(provider string, wire providers.WireAPI, source providers.AuthSource) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordBuilt(c.providerLabel(provider), wire.String(), string(source))
}

// RecordBuildError records a failed build.
//
// Parameters:
//   - provider: provider name
//   - errorType: one of the providers.ErrorType constants
func (c *Collector) RecordBuildError(provider, errorType string) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordError(c.providerLabel(provider), errorType)
}

// ObserveTokenFetch records how long a credential took to produce a token.
func (c *Collector) ObserveTokenFetch(mode credentials.AuthMode, d time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.credentialMetrics.ObserveFetch(string(mode), d)
}

// RecordReload records a catalog reload.
func (c *Collector) RecordReload(success bool, rejected int) {
	if !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordReload(success, rejected)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) providerLabel(provider string) string {
	if !c.cardinalityLimiter.Allow(provider) {
		return otherProvider
	}
	return provider
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this value would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
