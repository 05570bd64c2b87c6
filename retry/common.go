package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// attempts counts the attempts of a policy. A limit of 0 means an infinite number of attempts.
type attempts struct {
	attempted int
	limit     int
	jitter    float64
}

func newAttempts(limit int) attempts {
	if limit < 0 {
		panic("attempts can't be < 0")
	}
	return attempts{
		limit:  limit,
		jitter: 0.1,
	}
}

func (a *attempts) setJitter(jitter float64) {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
	a.jitter = jitter
}

// next reports whether one more attempt can be made. Before the n-th retry it waits for
// interval(n), spread by the jitter.
func (a *attempts) next(ctx context.Context, interval func(retry int) time.Duration) bool {
	if a.limit != 0 && a.attempted >= a.limit {
		return false
	}
	var d time.Duration
	if a.attempted > 0 {
		d = interval(a.attempted)
	}
	if !wait(ctx, d, a.jitter) {
		return false
	}
	a.attempted += 1
	return true
}

func wait(ctx context.Context, interval time.Duration, jitter float64) bool {
	if ctx.Err() != nil {
		return false
	}
	if interval <= 0 {
		return true
	}

	m := (rand.Float64() * 2) - 1
	j := m * jitter * float64(interval)
	d := interval + time.Duration(j)

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
