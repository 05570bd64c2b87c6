package retry

import (
	"context"
	"time"
)

// ImmediatePolicy makes attempts without waiting between them.
type ImmediatePolicy struct {
	attempts
}

var _ Policy = (*ImmediatePolicy)(nil)

// Immediate returns a policy that makes up to attempts attempts one right after another. Zero
// attempts means infinite attempts.
func Immediate(attempts int) *ImmediatePolicy {
	return &ImmediatePolicy{
		attempts: newAttempts(attempts),
	}
}

func (r *ImmediatePolicy) Attempt(ctx context.Context) bool {
	return r.next(ctx, func(int) time.Duration { return 0 })
}

func (r *ImmediatePolicy) Derive() Policy {
	return Immediate(r.limit)
}
