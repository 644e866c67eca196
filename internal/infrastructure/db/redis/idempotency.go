package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// DefaultIdempotencyTTL bounds how long a client can replay a booking request.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps a client's Idempotency-Key to the booking it created.
// Key format: idem:booking:<client_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the booking id stored for the key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, clientID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, bookingKey(clientID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember stores the booking id for the key. The first writer wins so a
// concurrent retry cannot overwrite the original mapping.
func (s *IdempotencyStore) Remember(ctx context.Context, clientID, key, bookingID string) error {
	if err := s.client.SetNX(ctx, bookingKey(clientID, key), bookingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func bookingKey(clientID, key string) string {
	return fmt.Sprintf("idem:booking:%s:%s", clientID, key)
}
