package lock

import (
	"context"
	"sync"
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
)

// MemoryLocker implements shared.Locker for a single process.
// Locks expire after their TTL like their Redis counterparts.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	now   func() time.Time
	token uint64
}

type memoryEntry struct {
	token   uint64
	expires time.Time
}

// NewMemoryLocker creates an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Obtain takes key unless another live holder has it.
func (l *MemoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.held[key]; ok && now.Before(e.expires) {
		return nil, shared.ErrLockNotObtained
	}
	l.token++
	l.held[key] = memoryEntry{token: l.token, expires: now.Add(ttl)}
	return &memoryLock{locker: l, key: key, token: l.token}, nil
}

type memoryLock struct {
	locker *MemoryLocker
	key    string
	token  uint64
}

// Release frees the key if this lock still owns it.
func (l *memoryLock) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	if e, ok := l.locker.held[l.key]; ok && e.token == l.token {
		delete(l.locker.held, l.key)
	}
	return nil
}
