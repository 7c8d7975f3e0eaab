// Package counters implements the sequence allocator: named counters whose
// values are minted with a single atomic store operation, so allocation stays
// collision-free across concurrent callers and independent server processes.
package counters

import "context"

type Repository interface {
	// Allocate returns the next value for the named sequence. The counter
	// row is created atomically on first use; no two calls ever observe the
	// same value for one name. Gaps are possible when an enclosing
	// transaction aborts, reuse is not.
	Allocate(ctx context.Context, name string) (int64, error)
}
