package ports

import (
	"context"
	"time"
)

// Lease is a held batch lock.
type Lease interface {
	Release(ctx context.Context) error
}

// BatchLock makes sure a single replica processes a prediction object.
// TryAcquire does not block: ok is false when another holder owns name.
type BatchLock interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (lease Lease, ok bool, err error)
}
