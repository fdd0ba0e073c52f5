package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

// DefaultTransferTTL is used when NewTransferCache is given a non-positive TTL.
const DefaultTransferTTL = time.Hour

// TransferCache implements usecase.TransferCache using Redis.
type TransferCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewTransferCache creates a new TransferCache.
func NewTransferCache(client redis.Cmdable, ttl time.Duration) *TransferCache {
	if ttl <= 0 {
		ttl = DefaultTransferTTL
	}

	return &TransferCache{
		client: client,
		prefix: "transfer:",
		ttl:    ttl,
	}
}

type cachedTransfer struct {
	ID                   int64           `json:"id"`
	SourceAccountID      int64           `json:"source_account_id"`
	DestinationAccountID int64           `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	Timestamp            time.Time       `json:"timestamp"`
}

func (c *TransferCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

// Get returns the cached transfer, or nil on a miss.
func (c *TransferCache) Get(ctx context.Context, id int64) (*domain.Transfer, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedTransfer
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &domain.Transfer{
		ID:                   cached.ID,
		SourceAccountID:      cached.SourceAccountID,
		DestinationAccountID: cached.DestinationAccountID,
		Amount:               domain.Normalize(cached.Amount),
		Timestamp:            cached.Timestamp.UTC(),
	}, nil
}

// Set stores a transfer with the configured TTL.
func (c *TransferCache) Set(ctx context.Context, transfer *domain.Transfer) error {
	data, err := json.Marshal(cachedTransfer{
		ID:                   transfer.ID,
		SourceAccountID:      transfer.SourceAccountID,
		DestinationAccountID: transfer.DestinationAccountID,
		Amount:               transfer.Amount,
		Timestamp:            transfer.Timestamp,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(transfer.ID), data, c.ttl).Err()
}

// Delete removes a transfer from the cache.
func (c *TransferCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
