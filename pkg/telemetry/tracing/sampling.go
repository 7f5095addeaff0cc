package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies determine which traces are recorded and exported.
const (
	// SamplerAlways samples all traces
	SamplerAlways = "always"

	// SamplerNever samples no traces
	SamplerNever = "never"

	// SamplerRatio samples a fraction of traces by trace id
	SamplerRatio = "ratio"

	// SamplerParentBased follows the parent's decision and samples root
	// spans by ratio
	SamplerParentBased = "parent_based"
)

// createSampler creates a sampler based on the strategy and ratio.
//
// The ratio and parent_based strategies use TraceIDRatioBased, which makes
// the same decision for the same trace id in every process. parent_based
// additionally keeps the decision carried by an incoming traceparent, which
// is what a CLI invoked from a traced pipeline wants:
//
//	telemetry:
//	  tracing:
//	    sampler: parent_based
//	    sample_ratio: 0.1
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	switch strategy {
	case SamplerAlways:
		return sdktrace.AlwaysSample(), nil
	case SamplerNever:
		return sdktrace.NeverSample(), nil
	case SamplerRatio, SamplerParentBased:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		base := sdktrace.TraceIDRatioBased(ratio)
		if strategy == SamplerRatio {
			return base, nil
		}
		return sdktrace.ParentBased(base), nil
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, parent_based)", strategy)
	}
}
