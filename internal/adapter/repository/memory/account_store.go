package memory

import (
	"context"
	"sync"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/usecase"
)

// AccountStore implements usecase.AccountStore in memory.
type AccountStore struct {
	locker   *KeyLocker
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
}

// NewAccountStore creates a new AccountStore sharing locker with the TxManager.
func NewAccountStore(locker *KeyLocker) *AccountStore {
	return &AccountStore{
		locker:   locker,
		accounts: make(map[int64]*domain.Account),
	}
}

// Create inserts a new account after an exclusive existence probe on its id.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := s.locker.Lock(ctx, account.ID); err != nil {
		return err
	}
	defer s.locker.Unlock(account.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return &domain.AccountAlreadyExistsError{AccountID: account.ID}
	}

	s.accounts[account.ID] = account.Clone()

	return nil
}

// Get returns the last committed state of the account without locking.
func (s *AccountStore) Get(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}

	return account.Clone(), nil
}

// GetForUpdate locks id for the lifetime of tx and returns the account.
// A missing account releases the lock straight away.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	t, err := asTx(tx, s.locker)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, id)
	if err != nil || account == nil {
		t.unlock(id)
		return nil, err
	}

	return account, nil
}

// Commit stages an all-or-nothing write of accounts, applied when tx commits.
func (s *AccountStore) Commit(_ context.Context, tx usecase.Transaction, accounts ...*domain.Account) error {
	t, err := asTx(tx, s.locker)
	if err != nil {
		return err
	}

	ids := make([]int64, len(accounts))
	snapshot := make([]*domain.Account, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
		snapshot[i] = a.Clone()
	}

	if !t.holdsAll(ids...) {
		return ErrLockNotHeld
	}

	return t.stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for _, a := range snapshot {
			s.accounts[a.ID] = a
		}
	})
}
