package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/paytransfer/internal/domain"
)

func TestAccountStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	_, _, store, _ := newStores()

	account := &domain.Account{ID: 123, Balance: decimal.RequireFromString("100.00000")}
	require.NoError(t, store.Create(ctx, account))

	account.Balance = decimal.Zero

	got, err := store.Get(ctx, 123)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "100.00000", domain.FormatMoney(got.Balance))
}

func TestAccountStore_GetMissing(t *testing.T) {
	_, _, store, _ := newStores()

	got, err := store.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	_, _, store, _ := newStores()

	require.NoError(t, store.Create(ctx, &domain.Account{ID: 123, Balance: decimal.NewFromInt(100)}))

	err := store.Create(ctx, &domain.Account{ID: 123, Balance: decimal.NewFromInt(200)})
	require.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	var exists *domain.AccountAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, int64(123), exists.AccountID)

	got, err := store.Get(ctx, 123)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestAccountStore_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	_, _, store, _ := newStores()

	const workers = 32
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			err := store.Create(ctx, &domain.Account{ID: 42, Balance: decimal.NewFromInt(int64(i))})
			switch {
			case err == nil:
				succeeded.Add(1)
			case domain.KindOf(err) == domain.KindAccountAlreadyExists:
				rejected.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())
}
