package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const loginFailuresKeyPrefix = "auth:login_failures:"

// LoginLimiter counts failed logins per email in Redis. When Redis cannot be
// reached it lets the attempt through and logs a warning.
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginLimiter builds a limiter; a nil client disables limiting.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

// Allow reports whether another attempt for email may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if !l.enabled() {
		return true
	}
	count, err := l.client.Get(ctx, loginFailuresKey(email)).Int()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	return count < l.maxAttempts
}

// RecordFailure counts one failed attempt; the window starts at the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if !l.enabled() {
		return
	}
	key := loginFailuresKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter incr failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if !l.enabled() {
		return
	}
	if err := l.client.Del(ctx, loginFailuresKey(email)).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.client != nil && l.maxAttempts > 0
}

func loginFailuresKey(email string) string {
	return loginFailuresKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
