// Package lock provides named, short-lived mutual exclusion for background jobs.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "hpfin:lock:"

// RedisLocker implements shared.Locker on top of bsm/redislock,
// so that several server instances share the same locks.
type RedisLocker struct {
	client    *redislock.Client
	keyPrefix string
}

// NewRedisLocker wraps an existing Redis client.
func NewRedisLocker(client redis.UniversalClient, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisLocker{
		client:    redislock.New(client),
		keyPrefix: keyPrefix,
	}
}

// Obtain tries once to take the lock; a held lock yields shared.ErrLockNotObtained.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	lk, err := l.client.Obtain(ctx, l.keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %q: %w", key, err)
	}
	return &redisLock{lock: lk}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release drops the lock. A lock that already expired is not an error.
func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
