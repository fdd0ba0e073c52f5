package memory

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeyLocker hands out one exclusive lock per account id. Locks are created on
// first use and kept for the lifetime of the process. Waiters are served in
// FIFO order and give up when their context is done.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[int64]*semaphore.Weighted
}

// NewKeyLocker creates a new KeyLocker.
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[int64]*semaphore.Weighted)}
}

func (l *KeyLocker) get(id int64) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[id] = sem
	}

	return sem
}

// Lock blocks until the lock for id is held or ctx is done.
func (l *KeyLocker) Lock(ctx context.Context, id int64) error {
	return l.get(id).Acquire(ctx, 1)
}

// TryLock acquires the lock for id only if it is free.
func (l *KeyLocker) TryLock(id int64) bool {
	return l.get(id).TryAcquire(1)
}

// Unlock releases the lock for id.
func (l *KeyLocker) Unlock(id int64) {
	l.get(id).Release(1)
}
