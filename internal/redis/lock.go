package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TripLockStore serializes competing invitation sends and accepts on one
// trip with a short-lived Redis lock.
type TripLockStore struct {
	client *redis.Client
}

// NewTripLockStore creates a new TripLockStore.
func NewTripLockStore(client *redis.Client) *TripLockStore {
	return &TripLockStore{client: client}
}

// AcquireTripLock attempts to acquire the lock for the given trip.
// Returns true if the lock was acquired, false if already held.
func (s *TripLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:trip:%s", tripID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseTripLock releases the lock for the given trip.
func (s *TripLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	key := fmt.Sprintf("lock:trip:%s", tripID)

	return s.client.Del(ctx, key).Err()
}
