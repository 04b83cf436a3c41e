package shared

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained is returned when a named lock is already held elsewhere.
var ErrLockNotObtained = errors.New("lock not obtained")

// Lock is a held named lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out short-lived named locks. Implementations must not block
// waiting for a held lock; they return ErrLockNotObtained instead.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
