package publisher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// mockKafkaWriter is a mock implementation of kafka.Writer for testing
type mockKafkaWriter struct {
	messages    []kafka.Message
	shouldError bool
	closed      bool
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.shouldError {
		return assert.AnError
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed = true
	return nil
}

func createTestSink(w *mockKafkaWriter) *KafkaSink {
	return &KafkaSink{writer: w, logger: zerolog.Nop()}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNewKafkaSink(t *testing.T) {
	sink := NewKafkaSink([]string{"localhost:9092"}, "game-results", zerolog.Nop())

	assert.NotNil(t, sink)
	assert.NotNil(t, sink.writer)
}

func TestKafkaSink_Emit(t *testing.T) {
	w := &mockKafkaWriter{}
	sink := createTestSink(w)

	event := models.LogEvent{ID: "e-1", Type: models.LogPlayoffs, Season: 2025, Text: "Finals", Score: 20}
	require.NoError(t, sink.Emit(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "e-1", string(msg.Key))
	assert.Equal(t, "event", header(msg, "kind"))
	assert.Equal(t, "playoffs", header(msg, "type"))
	assert.Equal(t, "2025", header(msg, "season"))

	var decoded models.LogEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, 20, decoded.Score)
}

func TestKafkaSink_SignalKeyedByGame(t *testing.T) {
	w := &mockKafkaWriter{}
	sink := createTestSink(w)

	require.NoError(t, sink.Signal(context.Background(), models.Signal{Type: models.SignalGameMerged, GameID: 77}))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "77", string(w.messages[0].Key))
	assert.Equal(t, "signal", header(w.messages[0], "kind"))
}

func TestKafkaSink_WriteError(t *testing.T) {
	sink := createTestSink(&mockKafkaWriter{shouldError: true})

	err := sink.Emit(context.Background(), models.LogEvent{ID: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestKafkaSink_Close(t *testing.T) {
	w := &mockKafkaWriter{}
	require.NoError(t, createTestSink(w).Close())
	assert.True(t, w.closed)
}
