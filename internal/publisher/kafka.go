package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Values of the "kind" header
const (
	kindEvent  = "event"
	kindSignal = "signal"
)

// KafkaSink publishes narrative events and signals to a Kafka topic
type KafkaSink struct {
	writer kafkaWriter
	logger zerolog.Logger
}

// kafkaWriter interface for Kafka writer abstraction
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaSink creates a sink writing to topic. Writes are synchronous so an
// emitted event is on the broker when Emit returns.
func NewKafkaSink(brokers []string, topic string, logger zerolog.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaSink{
		writer: writer,
		logger: logger.With().Str("component", "kafka_sink").Logger(),
	}
}

// Emit writes a narrative event keyed by its id
func (k *KafkaSink) Emit(ctx context.Context, event models.LogEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal log event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(kindEvent)},
			{Key: "type", Value: []byte(event.Type)},
			{Key: "season", Value: []byte(strconv.Itoa(event.Season))},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write to Kafka: %w", err)
	}

	k.logger.Debug().Str("type", string(event.Type)).Str("event_id", event.ID).Msg("published log event")
	return nil
}

// Signal writes a signal keyed by game id so a game's signals stay ordered
// within a partition.
func (k *KafkaSink) Signal(ctx context.Context, signal models.Signal) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("failed to marshal signal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(signal.GameID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(kindSignal)},
			{Key: "type", Value: []byte(signal.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write to Kafka: %w", err)
	}

	k.logger.Debug().Str("type", string(signal.Type)).Int("gid", signal.GameID).Msg("published signal")
	return nil
}

// Close closes the Kafka writer
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
