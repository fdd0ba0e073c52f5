package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/iho/paytransfer/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("memory: transaction already finished")
	// ErrForeignTransaction is returned when a transaction from another store is passed in.
	ErrForeignTransaction = errors.New("memory: transaction does not belong to this store")
	// ErrLockNotHeld is returned when a write targets an account the transaction has not locked.
	ErrLockNotHeld = errors.New("memory: account lock not held by transaction")
)

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	locker *KeyLocker
}

// NewTxManager creates a new TxManager.
func NewTxManager(locker *KeyLocker) *TxManager {
	return &TxManager{locker: locker}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{locker: m.locker}, nil
}

// Tx is the lock scope of one operation. Writes are staged and applied on
// Commit; locks are released in reverse acquisition order on Commit or Rollback.
type Tx struct {
	locker  *KeyLocker
	mu      sync.Mutex
	held    []int64
	pending []func()
	done    bool
}

func (t *Tx) lock(ctx context.Context, id int64) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxDone
	}
	if slices.Contains(t.held, id) {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.locker.Lock(ctx, id); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		t.locker.Unlock(id)
		return ErrTxDone
	}

	t.held = append(t.held, id)

	return nil
}

// unlock releases a single key early, used when the locked account turns out
// not to exist.
func (t *Tx) unlock(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := slices.Index(t.held, id)
	if idx < 0 {
		return
	}

	t.held = slices.Delete(t.held, idx, idx+1)
	t.locker.Unlock(id)
}

func (t *Tx) holdsAll(ids ...int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range ids {
		if !slices.Contains(t.held, id) {
			return false
		}
	}

	return true
}

func (t *Tx) stage(apply func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	t.pending = append(t.pending, apply)

	return nil
}

// Commit applies staged writes and releases every held lock.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	for _, apply := range t.pending {
		apply()
	}

	t.finish()

	return nil
}

// Rollback discards staged writes and releases every held lock.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}

	t.finish()

	return nil
}

// Held returns the ids currently locked by the transaction in acquisition order.
func (t *Tx) Held() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Clone(t.held)
}

func (t *Tx) finish() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.locker.Unlock(t.held[i])
	}

	t.held = nil
	t.pending = nil
	t.done = true
}

func asTx(tx usecase.Transaction, locker *KeyLocker) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.locker != locker {
		return nil, ErrForeignTransaction
	}

	return t, nil
}
