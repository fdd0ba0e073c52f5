package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

var (
	selectForUpdateSQL = regexp.QuoteMeta("SELECT account_id, balance FROM accounts WHERE account_id = $1 FOR UPDATE")
	selectAccountSQL   = regexp.QuoteMeta("SELECT account_id, balance FROM accounts WHERE account_id = $1")
	insertAccountSQL   = regexp.QuoteMeta("INSERT INTO accounts (account_id, balance)")
	updateBalanceSQL   = regexp.QuoteMeta("UPDATE accounts SET balance = $2 WHERE account_id = $1")
)

func numeric(s string) any {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func TestAccountRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(123)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}))
	mockPool.ExpectExec(insertAccountSQL).WithArgs(int64(123), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	repo := newAccountRepositoryWithPool(mockPool)
	err := repo.Create(context.Background(), &domain.Account{ID: 123, Balance: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCreateExisting(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(123)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}).AddRow(int64(123), numeric("100.00000")))
	mockPool.ExpectRollback()

	repo := newAccountRepositoryWithPool(mockPool)
	err := repo.Create(context.Background(), &domain.Account{ID: 123, Balance: decimal.NewFromInt(200)})
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCreateRaceLostToUniqueViolation(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(123)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}))
	mockPool.ExpectExec(insertAccountSQL).WithArgs(int64(123), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mockPool.ExpectRollback()

	repo := newAccountRepositoryWithPool(mockPool)
	err := repo.Create(context.Background(), &domain.Account{ID: 123, Balance: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGet(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(selectAccountSQL).WithArgs(int64(111)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}).AddRow(int64(111), numeric("149.87655")))
	mockPool.ExpectQuery(selectAccountSQL).WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}))

	repo := newAccountRepositoryWithPool(mockPool)

	account, err := repo.Get(context.Background(), 111)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account == nil || domain.FormatMoney(account.Balance) != "149.87655" {
		t.Fatalf("unexpected account: %+v", account)
	}

	missing, err := repo.Get(context.Background(), 999)
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing account, got (%v, %v)", missing, err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryLockAndCommit(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(111)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}).AddRow(int64(111), numeric("200")))
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(222)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}).AddRow(int64(222), numeric("100")))
	mockPool.ExpectExec(updateBalanceSQL).WithArgs(int64(111), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(updateBalanceSQL).WithArgs(int64(222), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	ctx := context.Background()
	repo := newAccountRepositoryWithPool(mockPool)
	tx, err := newTxManagerWithPool(mockPool, 0).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	src, err := repo.GetForUpdate(ctx, tx, 111)
	if err != nil {
		t.Fatalf("lock 111: %v", err)
	}
	dst, err := repo.GetForUpdate(ctx, tx, 222)
	if err != nil {
		t.Fatalf("lock 222: %v", err)
	}

	amount := decimal.RequireFromString("50.12345")
	err = repo.Commit(ctx, tx,
		&domain.Account{ID: src.ID, Balance: src.ApplyDebit(amount)},
		&domain.Account{ID: dst.ID, Balance: dst.ApplyCredit(amount)},
	)
	if err != nil {
		t.Fatalf("commit accounts: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetForUpdateMissing(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(selectForUpdateSQL).WithArgs(int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}))
	mockPool.ExpectRollback()

	ctx := context.Background()
	repo := newAccountRepositoryWithPool(mockPool)
	tx, err := newTxManagerWithPool(mockPool, 0).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	account, err := repo.GetForUpdate(ctx, tx, 999)
	if err != nil || account != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", account, err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCommitMissingRow(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec(updateBalanceSQL).WithArgs(int64(5), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ctx := context.Background()
	repo := newAccountRepositoryWithPool(mockPool)
	tx, err := newTxManagerWithPool(mockPool, 0).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := repo.Commit(ctx, tx, &domain.Account{ID: 5, Balance: decimal.NewFromInt(1)}); err == nil {
		t.Fatalf("expected error when no row was updated")
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "149.87655", "0.00001", "12345678901234.12345"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("round trip of %s gave %s", s, got)
		}
	}
}
