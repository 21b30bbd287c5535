package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptKeyPrefix = "login_attempts:"

// LoginRateLimiter throttles failed login attempts per email using Redis.
// Limiter errors never block a login; the caller treats them as "allowed".
type LoginRateLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginRateLimiter constructs the limiter. A nil client disables it.
func NewLoginRateLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginRateLimiter {
	if client == nil || maxAttempts <= 0 || window <= 0 {
		return nil
	}
	return &LoginRateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt is permitted for the email.
func (l *LoginRateLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l == nil {
		return true, nil
	}
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return true, err
	}
	return count < l.maxAttempts, nil
}

// RecordFailure counts a failed attempt and arms the window expiry.
func (l *LoginRateLimiter) RecordFailure(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	key := l.key(email)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

// Reset clears the counter after a successful login.
func (l *LoginRateLimiter) Reset(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginRateLimiter) key(email string) string {
	return loginAttemptKeyPrefix + strings.ToLower(email)
}
