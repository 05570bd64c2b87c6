package retry

import (
	"context"
	"time"
)

// FixedPolicy waits the same interval before every retry.
type FixedPolicy struct {
	attempts
	interval time.Duration
}

var _ Policy = (*FixedPolicy)(nil)

// Fixed returns a policy that makes up to attempts attempts, waiting interval before each
// retry. Zero attempts means infinite attempts.
func Fixed(attempts int, interval time.Duration) *FixedPolicy {
	if interval < 0 {
		panic("interval can't be < 0")
	}
	return &FixedPolicy{
		attempts: newAttempts(attempts),
		interval: interval,
	}
}

// WithJitter sets the share of the interval by which every wait is randomly spread.
func (r *FixedPolicy) WithJitter(jitter float64) *FixedPolicy {
	r.setJitter(jitter)
	return r
}

func (r *FixedPolicy) Attempt(ctx context.Context) bool {
	return r.next(ctx, func(int) time.Duration { return r.interval })
}

func (r *FixedPolicy) Derive() Policy {
	return Fixed(r.limit, r.interval).WithJitter(r.jitter)
}
