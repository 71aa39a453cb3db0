package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-registry/internal/core/ports"
)

// AttemptLimiter counts failed authentications per username in Redis.
// Key format: authfail:<username>. The window starts at the first failure and
// a success clears the counter.
type AttemptLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

var _ ports.AttemptLimiter = (*AttemptLimiter)(nil)

// NewAttemptLimiter locks a username out once maxFailures failures happen
// within window.
func NewAttemptLimiter(client *redis.Client, maxFailures int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, maxFailures: int64(maxFailures), window: window}
}

// Blocked reports whether username has reached the failure threshold.
func (l *AttemptLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempt check: %w", err)
	}
	return n >= l.maxFailures, nil
}

// Fail records a failed attempt. The first failure starts the window.
func (l *AttemptLimiter) Fail(ctx context.Context, username string) error {
	key := l.key(username)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("attempt record: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("attempt expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter.
func (l *AttemptLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("attempt reset: %w", err)
	}
	return nil
}

func (l *AttemptLimiter) key(username string) string {
	return "authfail:" + username
}
