package retry

import (
	"context"
	"math"
	"time"
)

// ExponentialPolicy multiplies the interval by the same base before every retry.
type ExponentialPolicy struct {
	attempts
	base        float64
	minInterval time.Duration
	maxInterval time.Duration
}

var _ Policy = (*ExponentialPolicy)(nil)

// Exponential returns a policy that makes up to attempts attempts. Intervals start at
// minInterval and double before every retry until they reach maxInterval. Zero attempts means
// infinite attempts.
func Exponential(attempts int, minInterval, maxInterval time.Duration) *ExponentialPolicy {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}

	return &ExponentialPolicy{
		attempts:    newAttempts(attempts),
		base:        2,
		minInterval: minInterval,
		maxInterval: maxInterval,
	}
}

// WithBase sets the multiplier applied to the interval between retries.
func (r *ExponentialPolicy) WithBase(base float64) *ExponentialPolicy {
	if base <= 1 {
		panic("base can't be <= 1")
	}
	r.base = base
	return r
}

// WithJitter sets the share of the interval by which every wait is randomly spread.
func (r *ExponentialPolicy) WithJitter(jitter float64) *ExponentialPolicy {
	r.setJitter(jitter)
	return r
}

func (r *ExponentialPolicy) Attempt(ctx context.Context) bool {
	return r.next(ctx, func(retry int) time.Duration {
		interval := float64(r.minInterval) * math.Pow(r.base, float64(retry-1))
		if interval >= float64(r.maxInterval) {
			return r.maxInterval
		}
		return time.Duration(interval)
	})
}

func (r *ExponentialPolicy) Derive() Policy {
	return Exponential(r.limit, r.minInterval, r.maxInterval).
		WithBase(r.base).
		WithJitter(r.jitter)
}
