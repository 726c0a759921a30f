package counter

import "context"

// Storage is durable single-value storage for the request counter.
// Absence of the stored value is reported as 0, not as an error.
type Storage interface {
	Get(ctx context.Context) (uint64, error)
	Set(ctx context.Context, value uint64) error
}
