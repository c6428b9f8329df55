package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Stream keys
const (
	EventStream  = "results.events"
	SignalStream = "results.signals"
)

// LiveStream is the per-sport stream of live increments, e.g. games.live.hockey
func LiveStream(sportKey string) string {
	return fmt.Sprintf("games.live.%s", sportKey)
}

// streamAdder is the part of the redis client the sink uses
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamSink publishes narrative events, signals and live increments to
// Redis streams
type StreamSink struct {
	client streamAdder
	maxLen int64
}

// NewStreamSink creates a stream sink. Streams are trimmed to roughly maxLen
// entries; 0 disables trimming.
func NewStreamSink(client *redis.Client, maxLen int64) *StreamSink {
	return &StreamSink{
		client: client,
		maxLen: maxLen,
	}
}

// Emit appends a narrative event to the event stream
func (s *StreamSink) Emit(ctx context.Context, event models.LogEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling log event: %w", err)
	}

	return s.add(ctx, EventStream, map[string]interface{}{
		"data":     string(data),
		"type":     string(event.Type),
		"event_id": event.ID,
	})
}

// Signal appends a state-change signal to the signal stream
func (s *StreamSink) Signal(ctx context.Context, signal models.Signal) error {
	data, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("marshaling signal: %w", err)
	}

	return s.add(ctx, SignalStream, map[string]interface{}{
		"data": string(data),
		"type": string(signal.Type),
		"gid":  signal.GameID,
	})
}

// PublishLiveUpdate appends a live increment to its sport's live stream
func (s *StreamSink) PublishLiveUpdate(ctx context.Context, update models.LiveUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling live update: %w", err)
	}

	return s.add(ctx, LiveStream(update.SportKey), map[string]interface{}{
		"data":       string(data),
		"session_id": update.SessionID,
		"gid":        update.GameID,
		"done":       update.Done,
	})
}

func (s *StreamSink) add(ctx context.Context, stream string, values map[string]interface{}) error {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("adding to stream %s: %w", stream, err)
	}
	return nil
}
