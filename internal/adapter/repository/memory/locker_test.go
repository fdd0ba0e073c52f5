package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLocker_ExclusivePerKey(t *testing.T) {
	l := NewKeyLocker()

	require.NoError(t, l.Lock(context.Background(), 1))
	assert.False(t, l.TryLock(1))
	assert.True(t, l.TryLock(2))

	l.Unlock(1)
	l.Unlock(2)
	assert.True(t, l.TryLock(1))
	l.Unlock(1)
}

func TestKeyLocker_WaitBoundedByContext(t *testing.T) {
	l := NewKeyLocker()
	require.NoError(t, l.Lock(context.Background(), 7))
	defer l.Unlock(7)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Lock(ctx, 7)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeyLocker_WaiterProceedsAfterUnlock(t *testing.T) {
	l := NewKeyLocker()
	require.NoError(t, l.Lock(context.Background(), 3))

	acquired := make(chan struct{})
	go func() {
		if err := l.Lock(context.Background(), 3); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	l.Unlock(3)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	l.Unlock(3)
}
