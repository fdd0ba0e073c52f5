package usecase

import (
	"context"
	"time"

	"github.com/iho/paytransfer/internal/domain"
)

// AccountStore defines keyed storage of accounts.
//
// Get is a plain read without locking. GetForUpdate takes an exclusive lock on
// the id for the lifetime of tx and returns (nil, nil) without holding a lock
// when the account does not exist. Commit writes every given account or none;
// the caller must hold locks on all of them through tx.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id int64) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	Commit(ctx context.Context, tx Transaction, accounts ...*domain.Account) error
}

// TransactionLog is the append-only record of completed transfers.
type TransactionLog interface {
	Append(ctx context.Context, tx Transaction, transfer *domain.Transfer) (int64, error)
	List(ctx context.Context) ([]*domain.Transfer, error)
	GetByID(ctx context.Context, id int64) (*domain.Transfer, error)
}

// Transaction represents the scope of one operation. Commit and Rollback both
// release every lock acquired through it; Rollback after Commit is a no-op.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// TransferCache caches completed transfers, which never change once recorded.
type TransferCache interface {
	Get(ctx context.Context, id int64) (*domain.Transfer, error)
	Set(ctx context.Context, transfer *domain.Transfer) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// Clock returns the current time.
type Clock func() time.Time
