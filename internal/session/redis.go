package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicworks/waste-complaints/internal/domain"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with native TTL expiry, so sessions
// survive process restarts and are shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Open stores the identity snapshot under a fresh token.
func (s *RedisStore) Open(ctx context.Context, identity domain.Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	token := newToken()
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve loads the identity for a token; nil when absent or expired.
func (s *RedisStore) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Close deletes the session. Deleting a missing key is a no-op in Redis,
// which gives the idempotency the registry requires.
func (s *RedisStore) Close(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
