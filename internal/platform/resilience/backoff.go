package resilience

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Backoff yields exponentially growing delays capped at max.
type Backoff struct {
	policy *backoff.ExponentialBackOff
}

func NewBackoff(initial, max time.Duration) *Backoff {
	policy := backoff.NewExponentialBackOff()
	if initial > 0 {
		policy.InitialInterval = initial
	}
	if max > 0 {
		policy.MaxInterval = max
	}
	if policy.InitialInterval > policy.MaxInterval {
		policy.InitialInterval = policy.MaxInterval
	}
	policy.Reset()
	return &Backoff{policy: policy}
}

// Next returns the delay before the next attempt, never above the cap.
func (b *Backoff) Next() time.Duration {
	delay := b.policy.NextBackOff()
	if delay == backoff.Stop || delay > b.policy.MaxInterval {
		return b.policy.MaxInterval
	}
	return delay
}

func (b *Backoff) Reset() {
	b.policy.Reset()
}
