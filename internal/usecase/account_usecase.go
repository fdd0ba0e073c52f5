package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accounts AccountStore
	observer Observer
	logger   zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accounts AccountStore, observer Observer, logger zerolog.Logger) *AccountUseCase {
	if observer == nil {
		observer = NopObserver{}
	}

	return &AccountUseCase{
		accounts: accounts,
		observer: observer,
		logger:   logger,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	AccountID      int64
	InitialBalance decimal.Decimal
}

// CreateAccount creates a new account. A duplicate id, sequential or
// concurrent, fails with domain.ErrAccountAlreadyExists and leaves the stored
// account untouched.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	start := time.Now()
	defer func() { uc.observer.AccountCreateDuration(time.Since(start)) }()

	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		uc.observer.AccountCreateFailed(domain.KindInvalidAmount)
		return nil, err
	}

	account := &domain.Account{
		ID:      input.AccountID,
		Balance: domain.Normalize(input.InitialBalance),
	}

	uc.logger.Debug().
		Int64("account_id", account.ID).
		Str("initial_balance", domain.FormatMoney(account.Balance)).
		Msg("creating account")

	if err := uc.accounts.Create(ctx, account); err != nil {
		kind := domain.KindOf(err)
		uc.observer.AccountCreateFailed(kind)

		if kind == domain.KindUnexpected {
			uc.logger.Error().Err(err).Int64("account_id", account.ID).Msg("failed to create account")
		} else {
			uc.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("account creation rejected")
		}

		return nil, err
	}

	uc.observer.AccountCreated(account)

	return account, nil
}

// GetAccount retrieves an account by ID using the plain, lock-free read path.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := uc.accounts.Get(ctx, id)
	if err != nil {
		uc.observer.LookupFailed(domain.KindUnexpected)
		return nil, err
	}

	if account == nil {
		uc.observer.LookupFailed(domain.KindAccountNotFound)
		uc.logger.Warn().Int64("account_id", id).Msg("account not found")

		return nil, &domain.AccountNotFoundError{AccountID: id}
	}

	uc.observer.AccountQueried()

	return account, nil
}
