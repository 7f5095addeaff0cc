package tracing

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Outbound provider requests carry the W3C traceparent and tracestate
// headers of the active span. A CLI invocation can join an existing trace by
// passing the caller's traceparent:
//
//	switchboard providers request openai --traceparent 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01

const (
	traceParentHeader = "traceparent"
	traceStateHeader  = "tracestate"
)

// ErrInvalidTraceParent is returned for malformed traceparent values.
var ErrInvalidTraceParent = errors.New("invalid traceparent")

// Propagator returns the W3C Trace Context and Baggage propagator.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// TraceParent is a parsed traceparent header.
type TraceParent struct {
	Version  string
	TraceID  trace.TraceID
	ParentID trace.SpanID
	Flags    trace.TraceFlags
}

// Sampled reports whether the sampled flag is set.
func (tp TraceParent) Sampled() bool {
	return tp.Flags.IsSampled()
}

// String formats tp as a header value.
func (tp TraceParent) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", tp.Version, tp.TraceID, tp.ParentID, tp.Flags)
}

// ParseTraceParent parses a traceparent header value of the form
// version-trace_id-parent_id-trace_flags. IDs must be lowercase hex and not
// all zeros; version ff is reserved.
func ParseTraceParent(value string) (TraceParent, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 4 {
		return TraceParent{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrInvalidTraceParent, len(parts))
	}

	version := parts[0]
	if len(version) != 2 || !isLowerHex(version) || version == "ff" {
		return TraceParent{}, fmt.Errorf("%w: bad version %q", ErrInvalidTraceParent, version)
	}

	traceID, err := trace.TraceIDFromHex(parts[1])
	if err != nil {
		return TraceParent{}, fmt.Errorf("%w: trace id: %v", ErrInvalidTraceParent, err)
	}
	parentID, err := trace.SpanIDFromHex(parts[2])
	if err != nil {
		return TraceParent{}, fmt.Errorf("%w: parent id: %v", ErrInvalidTraceParent, err)
	}

	if len(parts[3]) != 2 || !isLowerHex(parts[3]) {
		return TraceParent{}, fmt.Errorf("%w: bad flags %q", ErrInvalidTraceParent, parts[3])
	}
	flags, err := hex.DecodeString(parts[3])
	if err != nil {
		return TraceParent{}, fmt.Errorf("%w: flags: %v", ErrInvalidTraceParent, err)
	}

	return TraceParent{
		Version:  version,
		TraceID:  traceID,
		ParentID: parentID,
		Flags:    trace.TraceFlags(flags[0]),
	}, nil
}

// ValidateTraceParent reports whether value is a well-formed traceparent.
func ValidateTraceParent(value string) bool {
	_, err := ParseTraceParent(value)
	return err == nil
}

// ContextWithTraceParent returns a context whose remote parent is the given
// traceparent header value. An invalid value returns ctx unchanged.
func ContextWithTraceParent(ctx context.Context, value string) context.Context {
	if !ValidateTraceParent(value) {
		return ctx
	}
	return propagation.TraceContext{}.Extract(ctx, propagation.MapCarrier{traceParentHeader: value})
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// PropagationDebugInfo summarizes the trace headers of an outbound request.
func PropagationDebugInfo(headers http.Header) map[string]string {
	info := map[string]string{
		traceParentHeader: "not present",
		traceStateHeader:  "not present",
	}

	if value := headers.Get(traceParentHeader); value != "" {
		info[traceParentHeader] = value
		tp, err := ParseTraceParent(value)
		if err != nil {
			info["error"] = err.Error()
		} else {
			info["trace_id"] = tp.TraceID.String()
			info["parent_id"] = tp.ParentID.String()
			info["sampled"] = strconv.FormatBool(tp.Sampled())
		}
	}

	if value := headers.Get(traceStateHeader); value != "" {
		info[traceStateHeader] = value
	}

	return info
}
