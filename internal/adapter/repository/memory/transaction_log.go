package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/usecase"
)

// TransactionLog implements usecase.TransactionLog in memory.
type TransactionLog struct {
	locker    *KeyLocker
	nextID    atomic.Int64
	mu        sync.RWMutex
	transfers map[int64]*domain.Transfer
}

// NewTransactionLog creates a new TransactionLog bound to the same locker as the TxManager.
func NewTransactionLog(locker *KeyLocker) *TransactionLog {
	return &TransactionLog{
		locker:    locker,
		transfers: make(map[int64]*domain.Transfer),
	}
}

// Append assigns the next id and stages the record until tx commits.
// Ids of rolled back appends are never reused.
func (l *TransactionLog) Append(_ context.Context, tx usecase.Transaction, transfer *domain.Transfer) (int64, error) {
	t, err := asTx(tx, l.locker)
	if err != nil {
		return 0, err
	}

	record := *transfer
	record.ID = l.nextID.Add(1)

	err = t.stage(func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		l.transfers[record.ID] = &record
	})
	if err != nil {
		return 0, err
	}

	return record.ID, nil
}

// List returns every recorded transfer ordered by id.
func (l *TransactionLog) List(_ context.Context) ([]*domain.Transfer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	transfers := make([]*domain.Transfer, 0, len(l.transfers))
	for _, t := range l.transfers {
		cp := *t
		transfers = append(transfers, &cp)
	}

	slices.SortFunc(transfers, func(a, b *domain.Transfer) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return transfers, nil
}

// GetByID retrieves a transfer by ID.
func (l *TransactionLog) GetByID(_ context.Context, id int64) (*domain.Transfer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.transfers[id]
	if !ok {
		return nil, nil
	}

	cp := *t

	return &cp, nil
}
