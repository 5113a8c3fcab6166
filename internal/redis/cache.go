package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewCache stores rendered list payloads under named view keys and lets
// mutations declare which views they staled.
type ViewCache struct {
	client *redis.Client
}

// NewViewCache creates a new ViewCache.
func NewViewCache(client *redis.Client) *ViewCache {
	return &ViewCache{client: client}
}

// Cache TTL constants.
const (
	// AvailableRequestsTTL bounds staleness of the provider-facing
	// available-request list between invalidations.
	AvailableRequestsTTL = 10 * time.Second
)

const viewPrefix = "view:"

// Named view keys. Mutations pass these to Invalidate.
func RequestsView(profileID string) string      { return "requests:" + profileID }
func TripsView(profileID string) string         { return "trips:" + profileID }
func TripInvitationsView(tripID string) string  { return "invitations:trip:" + tripID }
func RequestInvitationsView(reqID string) string { return "invitations:request:" + reqID }

// AvailableRequestsView is the shared provider-facing request feed.
const AvailableRequestsView = "requests:available"

// GetJSON loads a cached view payload into dest, reporting a hit.
func (s *ViewCache) GetJSON(ctx context.Context, view string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, viewPrefix+view).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores a view payload.
func (s *ViewCache) SetJSON(ctx context.Context, view string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, viewPrefix+view, data, ttl).Err()
}

// Invalidate marks the named views stale by dropping their cached
// payloads.
func (s *ViewCache) Invalidate(ctx context.Context, views ...string) error {
	if len(views) == 0 {
		return nil
	}
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = viewPrefix + v
	}
	return s.client.Del(ctx, keys...).Err()
}
