package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/paytransfer/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransactionsTotal       prometheus.Counter
	TransactionsAmountTotal prometheus.Counter
	TransactionProcessing   prometheus.Histogram
	TransactionsQueried     prometheus.Counter

	// Account metrics
	AccountsCreated     prometheus.Counter
	AccountsQueried     prometheus.Counter
	AccountCreationTime prometheus.Histogram

	// Errors by kind
	Errors *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Idempotency metrics
	IdempotentReplays prometheus.Counter

	// Event metrics
	EventsPublished *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_transactions_total",
			Help: "Total number of successful transactions",
		}),
		TransactionsAmountTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_transactions_amount_total",
			Help: "Total amount transferred",
		}),
		TransactionProcessing: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payment_transactions_processing_time_seconds",
			Help:    "Time taken to process transactions",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionsQueried: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_transactions_queried_total",
			Help: "Total number of transaction queries",
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsQueried: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_accounts_queried_total",
			Help: "Total number of account queries",
		}),
		AccountCreationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payment_accounts_creation_time_seconds",
			Help:    "Time taken to create accounts",
			Buckets: prometheus.DefBuckets,
		}),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_errors_total",
				Help: "Total number of errors by kind",
			},
			[]string{"kind"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payment_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_idempotent_replays_total",
			Help: "Total responses replayed for a repeated idempotency key",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_events_published_total",
				Help: "Total domain events handed to the publisher",
			},
			[]string{"event_type", "status"},
		),
	}
}

// TransferSucceeded implements usecase.Observer.
func (m *Metrics) TransferSucceeded(transfer *domain.Transfer) {
	m.TransactionsTotal.Inc()
	m.TransactionsAmountTotal.Add(transfer.Amount.InexactFloat64())
}

// TransferFailed implements usecase.Observer.
func (m *Metrics) TransferFailed(kind domain.ErrorKind) {
	m.Errors.WithLabelValues(string(kind)).Inc()
}

// TransferDuration implements usecase.Observer.
func (m *Metrics) TransferDuration(d time.Duration) {
	m.TransactionProcessing.Observe(d.Seconds())
}

// AccountCreated implements usecase.Observer.
func (m *Metrics) AccountCreated(*domain.Account) {
	m.AccountsCreated.Inc()
}

// AccountCreateFailed implements usecase.Observer.
func (m *Metrics) AccountCreateFailed(kind domain.ErrorKind) {
	m.Errors.WithLabelValues(string(kind)).Inc()
}

// AccountCreateDuration implements usecase.Observer.
func (m *Metrics) AccountCreateDuration(d time.Duration) {
	m.AccountCreationTime.Observe(d.Seconds())
}

// AccountQueried implements usecase.Observer.
func (m *Metrics) AccountQueried() {
	m.AccountsQueried.Inc()
}

// TransferQueried implements usecase.Observer.
func (m *Metrics) TransferQueried() {
	m.TransactionsQueried.Inc()
}

// LookupFailed implements usecase.Observer.
func (m *Metrics) LookupFailed(kind domain.ErrorKind) {
	m.Errors.WithLabelValues(string(kind)).Inc()
}
