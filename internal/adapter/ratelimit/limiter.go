package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/islamic-sources/internal/core"
)

const keyPrefix = "rate_limit:"

// counter is the subset of the redis client used for fixed window counting.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// Limiter admits at most limit requests per key within each window.
type Limiter struct {
	client counter
	limit  int64
	window time.Duration
}

// New constructs a fixed window limiter backed by redis.
func New(client counter, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: int64(limit), window: window}
}

var _ core.RateLimiter = (*Limiter)(nil)

// Allow counts a request for key. When the budget is exhausted it reports how
// long the caller should wait before retrying.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := keyPrefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		// A key without expiry would block forever; restore the window.
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
		ttl = l.window
	}
	return false, ttl, nil
}

// Unlimited admits every request.
type Unlimited struct{}

var _ core.RateLimiter = Unlimited{}

func (Unlimited) Allow(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}
