package nonce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// keyPrefix is the Redis key prefix for nonce cooldowns
	keyPrefix = "nonce:cooldown"
)

// RedisLimiter implements Limiter using Redis
type RedisLimiter struct {
	client   redis.Cmdable
	cooldown time.Duration
	logger   *zap.Logger
}

// Compile-time interface compliance check
var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter with the given cooldown
func NewRedisLimiter(client redis.Cmdable, cooldown time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		cooldown: cooldown,
		logger:   logger,
	}
}

// buildKey creates a Redis key from address
// Format: nonce:cooldown:{lowercase_address}
func buildKey(address string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, strings.ToLower(strings.TrimSpace(address)))
}

// Acquire sets the cooldown key with SETNX; an existing key means the wallet is throttled
func (l *RedisLimiter) Acquire(ctx context.Context, address string) (time.Duration, error) {
	if l.cooldown <= 0 {
		return 0, nil
	}
	key := buildKey(address)

	ok, err := l.client.SetNX(ctx, key, "1", l.cooldown).Result()
	if err != nil {
		l.logger.Error("failed to acquire nonce cooldown",
			zap.String("address", address),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to acquire nonce cooldown: %w", err)
	}

	if !ok {
		wait, err := l.client.PTTL(ctx, key).Result()
		if err != nil || wait <= 0 {
			wait = l.cooldown
		}
		l.logger.Debug("nonce request throttled",
			zap.String("address", address),
			zap.Duration("retry_after", wait),
		)
		return wait, ErrCoolingDown
	}

	return 0, nil
}
