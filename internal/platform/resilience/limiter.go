package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds outbound calls to a metered provider.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// NewLimiter builds a token bucket from a per-minute budget. A non-positive
// budget disables limiting.
func NewLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
}

// Wait blocks until the limiter admits one request or ctx ends.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
