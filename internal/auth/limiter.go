package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginWindow is how long failed attempts are remembered per client.
const LoginWindow = 15 * time.Minute

// Limiter counts failed logins per client in Redis.
type Limiter struct {
	client redis.Cmdable
	max    int
	window time.Duration
}

// NewLimiter creates a limiter allowing max failures per LoginWindow. A nil client disables it.
func NewLimiter(client redis.Cmdable, max int) *Limiter {
	if max <= 0 {
		max = 10
	}
	return &Limiter{client: client, max: max, window: LoginWindow}
}

func limiterKey(client string) string { return "login:failures:" + client }

// Blocked reports whether client has used up its attempts.
func (l *Limiter) Blocked(ctx context.Context, client string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	n, err := l.client.Get(ctx, limiterKey(client)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login failures: %w", err)
	}
	return n >= l.max, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (l *Limiter) Fail(ctx context.Context, client string) error {
	if l == nil || l.client == nil {
		return nil
	}
	key := limiterKey(client)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count login failure: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("expire login failures: %w", err)
		}
	}
	return nil
}

// Reset clears the failures after a successful login.
func (l *Limiter) Reset(ctx context.Context, client string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, limiterKey(client)).Err()
}
