package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter caps how often a single email can request a recovery link. A nil
// Limiter (redis not configured) allows everything.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow increments the counter for the email and reports whether the request
// is within the window's budget. Redis failures fail open: recovery must not
// break when the cache is down.
func (l *Limiter) Allow(ctx context.Context, correo string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	key := "recuperacion:" + strings.ToLower(strings.TrimSpace(correo))
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		_ = l.client.Expire(ctx, key, l.window).Err()
	}
	return count <= int64(l.limit)
}
