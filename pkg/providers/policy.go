package providers

import (
	"math"
	"time"
)

// Global retry and timeout policy. Per-provider overrides replace the
// defaults; retry counts are always capped.
const (
	DefaultRequestMaxRetries   uint64 = 4
	DefaultStreamMaxRetries    uint64 = 5
	DefaultStreamIdleTimeoutMS uint64 = 300_000

	MaxRequestMaxRetries uint64 = 100
	MaxStreamMaxRetries  uint64 = 100
)

// RequestMaxRetries returns how many times a failed request may be retried.
func (i Info) RequestMaxRetries() uint64 {
	return min(valueOr(i.RequestMaxRetriesOverride, DefaultRequestMaxRetries), MaxRequestMaxRetries)
}

// StreamMaxRetries returns how many times a dropped stream may be
// reconnected.
func (i Info) StreamMaxRetries() uint64 {
	return min(valueOr(i.StreamMaxRetriesOverride, DefaultStreamMaxRetries), MaxStreamMaxRetries)
}

// StreamIdleTimeout returns how long a stream may go without an event before
// it is considered dead. The timeout is not capped.
func (i Info) StreamIdleTimeout() time.Duration {
	ms := valueOr(i.StreamIdleTimeoutMSOverride, DefaultStreamIdleTimeoutMS)
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

func valueOr(p *uint64, def uint64) uint64 {
	if p == nil {
		return def
	}
	return *p
}
