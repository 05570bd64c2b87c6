// This package contains the main [Policy] interface and several implementations.
package retry

import (
	"context"
)

// Policy decides whether a failed pull from a source is made again, and when.
//
// Implementations are not considered thread-safe. A fresh instance is derived for every item,
// so attempts are counted per item.
type Policy interface {
	// Attempt checks if another attempt should be made.
	//
	// This method blocks until an attempt can be made or the context is cancelled. The first
	// call doesn't wait. Returns true if an attempt should be made, false if no attempts remain
	// or the context is cancelled.
	Attempt(ctx context.Context) bool
	// Derive returns a new Policy instance with the same settings and no attempts made.
	Derive() Policy
}
