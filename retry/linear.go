package retry

import (
	"context"
	"time"
)

// LinearPolicy increases the interval by the same step before every retry.
type LinearPolicy struct {
	attempts
	step        time.Duration
	minInterval time.Duration
	maxInterval time.Duration
}

var _ Policy = (*LinearPolicy)(nil)

// Linear returns a policy that makes up to attempts attempts. Intervals grow from minInterval
// to maxInterval; with finite attempts, the step is chosen so that the last retry waits
// maxInterval. Zero attempts means infinite attempts.
func Linear(attempts int, minInterval, maxInterval time.Duration) *LinearPolicy {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}

	step := minInterval
	if attempts > 2 {
		// A range shorter than the number of retries still has to grow.
		step = max((maxInterval-minInterval)/time.Duration(attempts-2), time.Nanosecond)
	}

	return &LinearPolicy{
		attempts:    newAttempts(attempts),
		step:        step,
		minInterval: minInterval,
		maxInterval: maxInterval,
	}
}

// WithStep sets the amount by which the interval grows between retries.
func (r *LinearPolicy) WithStep(step time.Duration) *LinearPolicy {
	if step <= 0 {
		panic("step can't be <= 0")
	}
	r.step = step
	return r
}

// WithJitter sets the share of the interval by which every wait is randomly spread.
func (r *LinearPolicy) WithJitter(jitter float64) *LinearPolicy {
	r.setJitter(jitter)
	return r
}

func (r *LinearPolicy) Attempt(ctx context.Context) bool {
	return r.next(ctx, func(retry int) time.Duration {
		return min(r.minInterval+r.step*time.Duration(retry-1), r.maxInterval)
	})
}

func (r *LinearPolicy) Derive() Policy {
	return Linear(r.limit, r.minInterval, r.maxInterval).
		WithStep(r.step).
		WithJitter(r.jitter)
}
