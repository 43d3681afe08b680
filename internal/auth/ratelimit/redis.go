package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps counters in redis so several auth replicas share them.
type RedisLimiter struct {
	Client redis.UniversalClient
}

func NewRedisLimiter(client redis.UniversalClient) *RedisLimiter {
	return &RedisLimiter{Client: client}
}

// Hit increments key and, for the first hit of a window, sets its expiry.
// EXPIRE NX only applies to keys without a TTL, so later hits never move the
// window.
func (l *RedisLimiter) Hit(ctx context.Context, key string, decay time.Duration) (int, error) {
	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, decay)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (l *RedisLimiter) Attempts(ctx context.Context, key string) (int, error) {
	n, err := l.Client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (l *RedisLimiter) TooManyAttempts(ctx context.Context, key string, max int) (bool, error) {
	n, err := l.Attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return n >= max, nil
}

func (l *RedisLimiter) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.Client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// -1 (no expiry) and -2 (missing key) both mean nothing to wait for.
	return max(ttl, 0), nil
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	return l.Client.Del(ctx, key).Err()
}
