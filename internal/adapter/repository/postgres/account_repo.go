package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/paytransfer/internal/usecase"
)

type dbPool interface {
	generated.DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// AccountRepository implements usecase.AccountStore.
type AccountRepository struct {
	pool    dbPool
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepositoryWithPool(pool)
}

func newAccountRepositoryWithPool(pool dbPool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a new account. The existence probe runs under FOR UPDATE and
// a unique violation from a concurrent insert maps to the same error.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	queries := r.queries.WithTx(tx)

	_, err = queries.GetAccountForUpdate(ctx, account.ID)
	switch {
	case err == nil:
		return &domain.AccountAlreadyExistsError{AccountID: account.ID}
	case !errors.Is(err, pgx.ErrNoRows):
		return err
	}

	err = queries.CreateAccount(ctx, generated.CreateAccountParams{
		AccountID: account.ID,
		Balance:   decimalToNumeric(account.Balance),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.AccountAlreadyExistsError{AccountID: account.ID}
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return &domain.AccountAlreadyExistsError{AccountID: account.ID}
		}
		return err
	}

	return nil
}

// Get returns the last committed state of the account, or nil if absent.
func (r *AccountRepository) Get(ctx context.Context, id int64) (*domain.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetForUpdate reads the account with a row lock held until tx ends.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	row, err := generated.New(pgxTx).GetAccountForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// Commit writes every account balance inside tx.
func (r *AccountRepository) Commit(ctx context.Context, tx usecase.Transaction, accounts ...*domain.Account) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	queries := generated.New(pgxTx)

	for _, account := range accounts {
		affected, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
			AccountID: account.ID,
			Balance:   decimalToNumeric(account.Balance),
		})
		if err != nil {
			return err
		}

		if affected != 1 {
			return fmt.Errorf("update balance of account %d: %d rows affected", account.ID, affected)
		}
	}

	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:      row.AccountID,
		Balance: domain.Normalize(numericToDecimal(row.Balance)),
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamp(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: t.UTC(), Valid: true}
}
