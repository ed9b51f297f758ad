package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the shared backing: a sorted set per identity scored
// by request time. Prune, append, and count run in one pipeline so the
// admission decision is consistent across worker processes. Single-key
// sorted-set operations are atomic on the server; no transaction layer
// is built on top.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time

	mu  sync.Mutex
	cfg Config
}

// NewRedisLimiter wraps an existing client.
func NewRedisLimiter(client *redis.Client, prefix string, cfg Config) *RedisLimiter {
	if cfg.Requests <= 0 {
		cfg = DefaultConfig()
	}
	if prefix == "" {
		prefix = "assist"
	}
	return &RedisLimiter{client: client, prefix: prefix, cfg: cfg, now: time.Now}
}

// SetConfig swaps the window parameters, applied to the next Allow.
func (l *RedisLimiter) SetConfig(cfg Config) {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, identity string) (bool, error) {
	l.mu.Lock()
	cfg := l.cfg
	l.mu.Unlock()

	key := fmt.Sprintf("%s:rate:%s", l.prefix, identity)
	now := l.now()
	cutoff := now.Add(-cfg.Window)

	// Members need a unique suffix so two requests in the same
	// nanosecond both count.
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate check %s: %w", identity, err)
	}
	return count.Val() <= int64(cfg.Requests), nil
}
