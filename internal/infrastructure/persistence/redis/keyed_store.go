package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
)

// KeyedStore implements ports.KeyedStore on Redis. Entries expire through
// Redis TTLs, so the blacklist namespaces prune themselves.
type KeyedStore struct {
	client *redis.Client
}

func NewKeyedStore(client *redis.Client) *KeyedStore {
	return &KeyedStore{client: client}
}

func (s *KeyedStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *KeyedStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *KeyedStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

var _ ports.KeyedStore = (*KeyedStore)(nil)
