package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

func TestTransferCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewTransferCache(client, time.Minute)
	ctx := context.Background()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 678000, time.UTC)
	transfer := &domain.Transfer{
		ID:                   7,
		SourceAccountID:      111,
		DestinationAccountID: 222,
		Amount:               decimal.RequireFromString("50.12345"),
		Timestamp:            ts,
	}

	if err := cache.Set(ctx, transfer); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected cached transfer")
	}

	if got.SourceAccountID != 111 || got.DestinationAccountID != 222 {
		t.Fatalf("unexpected accounts: %+v", got)
	}
	if domain.FormatMoney(got.Amount) != "50.12345" {
		t.Fatalf("unexpected amount: %s", got.Amount)
	}
	if !got.Timestamp.Equal(ts) {
		t.Fatalf("unexpected timestamp: %v", got.Timestamp)
	}

	if ttl := mr.TTL("transfer:7"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %v", ttl)
	}
}

func TestTransferCacheMiss(t *testing.T) {
	client, _ := newTestRedisClient(t)

	got, err := NewTransferCache(client, 0).Get(context.Background(), 404)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got transfer=%v err=%v", got, err)
	}
}

func TestTransferCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewTransferCache(client, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, &domain.Transfer{ID: 1, Amount: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got, _ := cache.Get(ctx, 1); got != nil {
		t.Fatalf("expected deleted transfer to miss")
	}
}

func TestTransferCacheCorruptEntry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	if err := mr.Set("transfer:9", "{not json"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := NewTransferCache(client, time.Minute).Get(context.Background(), 9); err == nil {
		t.Fatalf("expected decode error")
	}
}
