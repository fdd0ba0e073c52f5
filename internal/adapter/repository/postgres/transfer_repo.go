package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/paytransfer/internal/usecase"
)

// TransferRepository implements usecase.TransactionLog.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return newTransferRepositoryWithDB(pool)
}

func newTransferRepositoryWithDB(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Append inserts the transfer inside tx and returns the id assigned by the sequence.
func (r *TransferRepository) Append(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) (int64, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return 0, err
	}

	return generated.New(pgxTx).CreateTransfer(ctx, generated.CreateTransferParams{
		SourceAccountID:      transfer.SourceAccountID,
		DestinationAccountID: transfer.DestinationAccountID,
		Amount:               decimalToNumeric(transfer.Amount),
		Timestamp:            timeToPgTimestamp(transfer.Timestamp),
	})
}

// List returns every transfer ordered by id.
func (r *TransferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers, nil
}

// GetByID retrieves a transfer by ID, or nil if absent.
func (r *TransferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	row, err := r.queries.GetTransfer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:                   row.ID,
		SourceAccountID:      row.SourceAccountID,
		DestinationAccountID: row.DestinationAccountID,
		Amount:               domain.Normalize(numericToDecimal(row.Amount)),
		Timestamp:            row.Timestamp.Time.UTC(),
	}
}
