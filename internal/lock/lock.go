// Package lock serializes checkout attempts per user so a double-submit
// cannot place the same cart twice.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// CheckoutLock guards the checkout critical section for a single user.
type CheckoutLock interface {
	// Acquire takes the lock for userID. It returns false if another
	// checkout currently holds it.
	Acquire(ctx context.Context, userID string) (bool, error)

	// Release frees the lock for userID. Releasing an expired or unheld
	// lock is a no-op.
	Release(ctx context.Context, userID string) error
}

// redisLock implements CheckoutLock with a short-lived Redis key per user.
// The TTL bounds how long a crashed request can keep a user locked out.
type redisLock struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisLock creates a Redis-backed checkout lock.
func NewRedisLock(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CheckoutLock {
	return &redisLock{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "checkout_lock").Logger(),
	}
}

func lockKey(userID string) string {
	return "checkout_lock:" + userID
}

// Acquire takes the lock for userID via SETNX.
func (l *redisLock) Acquire(ctx context.Context, userID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(userID), "1", l.ttl).Result()
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", userID).Msg("failed to acquire checkout lock")
		return false, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}

	if !ok {
		l.logger.Warn().Str("user_id", userID).Msg("checkout already in progress")
	}
	return ok, nil
}

// Release frees the lock for userID.
func (l *redisLock) Release(ctx context.Context, userID string) error {
	if err := l.client.Del(ctx, lockKey(userID)).Err(); err != nil {
		l.logger.Error().Err(err).Str("user_id", userID).Msg("failed to release checkout lock")
		return fmt.Errorf("failed to release checkout lock: %w", err)
	}
	return nil
}
