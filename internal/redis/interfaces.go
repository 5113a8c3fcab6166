package redis

import (
	"context"
	"time"
)

// ViewCacheInterface defines the interface for named-view caching.
type ViewCacheInterface interface {
	GetJSON(ctx context.Context, view string, dest any) (bool, error)
	SetJSON(ctx context.Context, view string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, views ...string) error
}

// TripLockInterface defines the interface for per-trip locking.
type TripLockInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ ViewCacheInterface = (*ViewCache)(nil)
	_ TripLockInterface  = (*TripLockStore)(nil)
)
