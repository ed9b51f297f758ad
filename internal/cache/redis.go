package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared backing used when a Redis address is
// configured. Entries are written with the scope's TTL via SET EX so
// expiry is native; capacity limits are not enforced here.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. The prefix namespaces keys
// so the assist service can share an instance with the rest of the
// portal.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "assist"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store. redis.Nil maps to a plain miss.
func (r *RedisStore) Get(ctx context.Context, scope Scope, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(scope, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", scope, err)
	}
	return val, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, scope Scope, key string, value []byte) error {
	ttl := PolicyFor(scope).TTL
	if err := r.client.Set(ctx, r.key(scope, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", scope, err)
	}
	return nil
}

func (r *RedisStore) key(scope Scope, key string) string {
	return fmt.Sprintf("%s:cache:%s:%s", r.prefix, scope, key)
}
