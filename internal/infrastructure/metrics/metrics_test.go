package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/usecase"
)

var _ usecase.Observer = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.TransactionsTotal == nil || m.HTTPRequests == nil || m.Errors == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Errors.WithLabelValues(string(domain.KindUnexpected))
	m.HTTPRequests.WithLabelValues("GET", "/health", "200")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserverRecordsTransferOutcomes(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.TransferSucceeded(&domain.Transfer{Amount: decimal.RequireFromString("50.12345")})
	m.TransferSucceeded(&domain.Transfer{Amount: decimal.RequireFromString("0.5")})
	m.TransferFailed(domain.KindInsufficientBalance)
	m.TransferFailed(domain.KindInsufficientBalance)
	m.TransferFailed(domain.KindAccountNotFound)
	m.TransferDuration(15 * time.Millisecond)

	if got := testutil.ToFloat64(m.TransactionsTotal); got != 2 {
		t.Fatalf("expected 2 transactions, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransactionsAmountTotal); got < 50.62344 || got > 50.62346 {
		t.Fatalf("expected amount total 50.62345, got %v", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(domain.KindInsufficientBalance))); got != 2 {
		t.Fatalf("expected 2 insufficient balance errors, got %v", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(domain.KindAccountNotFound))); got != 1 {
		t.Fatalf("expected 1 account not found error, got %v", got)
	}
	if got := testutil.CollectAndCount(m.TransactionProcessing); got != 1 {
		t.Fatalf("expected processing histogram to be collected, got %d", got)
	}
}

func TestObserverRecordsAccountOutcomes(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.AccountCreated(&domain.Account{ID: 1})
	m.AccountCreateFailed(domain.KindAccountAlreadyExists)
	m.AccountCreateDuration(time.Millisecond)
	m.AccountQueried()
	m.AccountQueried()
	m.TransferQueried()
	m.LookupFailed(domain.KindTransferNotFound)

	if got := testutil.ToFloat64(m.AccountsCreated); got != 1 {
		t.Fatalf("expected 1 account created, got %v", got)
	}
	if got := testutil.ToFloat64(m.AccountsQueried); got != 2 {
		t.Fatalf("expected 2 account queries, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransactionsQueried); got != 1 {
		t.Fatalf("expected 1 transaction query, got %v", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(domain.KindAccountAlreadyExists))); got != 1 {
		t.Fatalf("expected 1 already exists error, got %v", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues(string(domain.KindTransferNotFound))); got != 1 {
		t.Fatalf("expected 1 transfer not found error, got %v", got)
	}
}
