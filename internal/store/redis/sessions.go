package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore persists logged-out token IDs with a TTL matching the
// token's remaining lifetime, so revocation survives process restarts and is
// visible to every instance.
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func revocationKey(jti string) string {
	return "session:revoked:" + jti
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // token already expired, nothing to persist
	}
	if err := s.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis.RevocationStore.Revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID was revoked. How a store failure is
// treated is the caller's policy, not the store's.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revocationKey(jti)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, fmt.Errorf("redis.RevocationStore.IsRevoked: %w", err)
}
