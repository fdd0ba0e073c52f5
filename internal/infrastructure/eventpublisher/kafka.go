package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/paytransfer/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope is the wire format of every published event.
type envelope struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   int64           `json:"aggregate_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaPublisher publishes events to a Kafka topic, keyed by aggregate so
// events of one account or transfer stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	logger.Info().Strs("brokers", brokers).Str("topic", topic).Msg("kafka publisher initialized")

	return newKafkaPublisherWithWriter(writer, logger)
}

func newKafkaPublisherWithWriter(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish writes event as a single message.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.Event) error {
	msg, err := encodeMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to produce event %s: %w", event.ID, err)
	}

	p.logger.Debug().Str("event_id", event.ID).Str("event_type", event.EventType).Msg("produced event")

	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka publisher: %w", err)
	}

	return nil
}

func encodeMessage(event *domain.Event) (kafka.Message, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return kafka.Message{}, err
	}

	value, err := json.Marshal(envelope{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		CreatedAt:     event.CreatedAt,
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(event.AggregateType + ":" + strconv.FormatInt(event.AggregateID, 10)),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}, nil
}
