package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

// TransferUseCase handles transfer business logic.
type TransferUseCase struct {
	txManager TransactionManager
	accounts  AccountStore
	log       TransactionLog
	retrier   Retrier
	cache     TransferCache
	observer  Observer
	logger    zerolog.Logger
	now       Clock
	lockWait  time.Duration
}

// TransferOption configures optional collaborators of TransferUseCase.
type TransferOption func(*TransferUseCase)

// WithRetrier retries whole transfer attempts on transient storage failures.
func WithRetrier(r Retrier) TransferOption {
	return func(uc *TransferUseCase) { uc.retrier = r }
}

// WithTransferCache serves GetTransfer from a cache before the log.
func WithTransferCache(c TransferCache) TransferOption {
	return func(uc *TransferUseCase) { uc.cache = c }
}

// WithObserver sets the outcome observer.
func WithObserver(o Observer) TransferOption {
	return func(uc *TransferUseCase) { uc.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) TransferOption {
	return func(uc *TransferUseCase) { uc.logger = l }
}

// WithClock overrides the time source used for transfer timestamps.
func WithClock(c Clock) TransferOption {
	return func(uc *TransferUseCase) { uc.now = c }
}

// WithLockWaitTimeout bounds the lock-read-validate-write window.
func WithLockWaitTimeout(d time.Duration) TransferOption {
	return func(uc *TransferUseCase) {
		if d > 0 {
			uc.lockWait = d
		}
	}
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accounts AccountStore,
	log TransactionLog,
	opts ...TransferOption,
) *TransferUseCase {
	uc := &TransferUseCase{
		txManager: txManager,
		accounts:  accounts,
		log:       log,
		retrier:   noRetry{},
		observer:  NopObserver{},
		logger:    zerolog.Nop(),
		now:       time.Now,
		lockWait:  DefaultLockWaitTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               decimal.Decimal
}

// Transfer moves Amount from the source to the destination account and
// records the transfer. On any failure neither balance changes.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	start := time.Now()
	defer func() { uc.observer.TransferDuration(time.Since(start)) }()

	transfer, err := uc.transfer(ctx, input)
	if err != nil {
		kind := domain.KindOf(err)
		uc.observer.TransferFailed(kind)

		event := uc.logger.Warn()
		if kind == domain.KindUnexpected {
			event = uc.logger.Error()
		}
		event.Err(err).
			Int64("source_account_id", input.SourceAccountID).
			Int64("destination_account_id", input.DestinationAccountID).
			Str("amount", domain.DescribeAmount(input.Amount)).
			Str("kind", string(kind)).
			Msg("transfer rejected")

		return nil, err
	}

	uc.observer.TransferSucceeded(transfer)
	uc.logger.Debug().
		Int64("transfer_id", transfer.ID).
		Int64("source_account_id", transfer.SourceAccountID).
		Int64("destination_account_id", transfer.DestinationAccountID).
		Str("amount", domain.FormatMoney(transfer.Amount)).
		Msg("transfer completed")

	return transfer, nil
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	// 1. Validate before any lock is taken
	if err := domain.ValidateTransfer(input.SourceAccountID, input.DestinationAccountID, input.Amount); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()

	var result *domain.Transfer
	err := uc.retrier.Retry(ctx, func() error {
		transfer, err := uc.execute(ctx, input)
		if err != nil {
			return err
		}

		result = transfer

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// execute runs one attempt of the lock-read-validate-write protocol.
func (uc *TransferUseCase) execute(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	transfer := &domain.Transfer{
		SourceAccountID:      input.SourceAccountID,
		DestinationAccountID: input.DestinationAccountID,
		Amount:               domain.Normalize(input.Amount),
	}

	// 2. Ascending id order (DEADLOCK PREVENTION)
	low, high := transfer.LockOrder()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	// 3. Lock both accounts, fail fast on the first missing one
	held := make(map[int64]*domain.Account, 2)
	for _, id := range []int64{low, high} {
		account, err := uc.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		if account == nil {
			return nil, &domain.AccountNotFoundError{AccountID: id}
		}

		held[id] = account
	}

	// 4. Resolve roles independently of acquisition order
	source := held[transfer.SourceAccountID]
	dest := held[transfer.DestinationAccountID]

	// 5. Balance check under lock
	if !source.CanDebit(transfer.Amount) {
		return nil, &domain.InsufficientBalanceError{
			AccountID: source.ID,
			Balance:   source.Balance,
			Requested: transfer.Amount,
		}
	}

	// 6. Exact arithmetic at scale 5, within the column precision
	if err := domain.ValidateCredit(dest, transfer.Amount); err != nil {
		return nil, err
	}

	updatedSource := &domain.Account{ID: source.ID, Balance: source.ApplyDebit(transfer.Amount)}
	updatedDest := &domain.Account{ID: dest.ID, Balance: dest.ApplyCredit(transfer.Amount)}

	// 7. Both rows in one atomic write
	if err := uc.accounts.Commit(ctx, tx, updatedSource, updatedDest); err != nil {
		return nil, err
	}

	// 8. Record the transfer
	transfer.Timestamp = uc.now().UTC().Truncate(time.Microsecond)

	id, err := uc.log.Append(ctx, tx, transfer)
	if err != nil {
		return nil, err
	}

	transfer.ID = id

	// 9. Commit releases both locks
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("transfer_id", id).Msg("transfer cache read failed")
		} else if cached != nil {
			uc.observer.TransferQueried()
			return cached, nil
		}
	}

	transfer, err := uc.log.GetByID(ctx, id)
	if err != nil {
		uc.observer.LookupFailed(domain.KindUnexpected)
		return nil, err
	}

	if transfer == nil {
		uc.observer.LookupFailed(domain.KindTransferNotFound)
		return nil, &domain.TransferNotFoundError{TransferID: id}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, transfer); err != nil {
			uc.logger.Warn().Err(err).Int64("transfer_id", id).Msg("transfer cache write failed")
		}
	}

	uc.observer.TransferQueried()

	return transfer, nil
}

// ListTransfers lists every recorded transfer in ascending id order.
func (uc *TransferUseCase) ListTransfers(ctx context.Context) ([]*domain.Transfer, error) {
	transfers, err := uc.log.List(ctx)
	if err != nil {
		uc.observer.LookupFailed(domain.KindUnexpected)
		return nil, err
	}

	uc.observer.TransferQueried()

	return transfers, nil
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}
