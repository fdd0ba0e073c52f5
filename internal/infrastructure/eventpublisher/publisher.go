package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/infrastructure/metrics"
	"github.com/iho/paytransfer/internal/usecase"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Config for EventPublisher.
type Config struct {
	Publisher    Publisher
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics // optional
	BufferSize   int              // Number of events queued before new ones are dropped
	DrainTimeout time.Duration    // How long Start keeps publishing queued events after cancellation
}

// EventPublisher turns committed outcomes into domain events and publishes
// them from a background worker. It implements usecase.Observer and never
// blocks the caller: when the queue is full the event is dropped and logged.
type EventPublisher struct {
	usecase.NopObserver

	publisher    Publisher
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	queue        chan *domain.Event
	drainTimeout time.Duration
	now          func() time.Time
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaultDrainTimeout
	}

	return &EventPublisher{
		publisher:    cfg.Publisher,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		queue:        make(chan *domain.Event, cfg.BufferSize),
		drainTimeout: cfg.DrainTimeout,
		now:          time.Now,
	}
}

// TransferSucceeded queues a transfer.completed event.
func (ep *EventPublisher) TransferSucceeded(transfer *domain.Transfer) {
	ep.enqueue(&domain.Event{
		ID:            ulid.Make().String(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferCompleted,
		Payload: domain.TransferCompletedEvent{
			TransferID:           transfer.ID,
			SourceAccountID:      transfer.SourceAccountID,
			DestinationAccountID: transfer.DestinationAccountID,
			Amount:               domain.FormatMoney(transfer.Amount),
			Timestamp:            transfer.Timestamp.UTC().Format(time.RFC3339Nano),
		},
		CreatedAt: ep.now().UTC(),
	})
}

// AccountCreated queues an account.created event.
func (ep *EventPublisher) AccountCreated(account *domain.Account) {
	ep.enqueue(&domain.Event{
		ID:            ulid.Make().String(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: domain.AccountCreatedEvent{
			AccountID:      account.ID,
			InitialBalance: domain.FormatMoney(account.Balance),
		},
		CreatedAt: ep.now().UTC(),
	})
}

func (ep *EventPublisher) enqueue(event *domain.Event) {
	select {
	case ep.queue <- event:
	default:
		ep.record(event, "dropped")
		ep.logger.Warn().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Msg("event queue full, dropping event")
	}
}

// Start begins the event publishing worker.
// It runs until the context is cancelled, then drains queued events.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().Int("buffer_size", cap(ep.queue)).Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.drain()
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case event := <-ep.queue:
			ep.publishEvent(ctx, event)
		}
	}
}

func (ep *EventPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), ep.drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-ep.queue:
			ep.publishEvent(ctx, event)
		default:
			return
		}
	}
}

// publishEvent publishes a single event.
func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.Event) {
	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Int64("aggregate_id", event.AggregateID).
		Msg("publishing event")

	if err := ep.publisher.Publish(ctx, event); err != nil {
		ep.record(event, "failed")
		ep.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Msg("failed to publish event")
		return
	}

	ep.record(event, "published")
}

func (ep *EventPublisher) record(event *domain.Event, status string) {
	if ep.metrics != nil {
		ep.metrics.EventsPublished.WithLabelValues(event.EventType, status).Inc()
	}
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Int64("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
