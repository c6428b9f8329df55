package publisher

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// LogSink writes events and signals to the service log. Used when no broker
// is configured.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "log_sink").Logger()}
}

func (l *LogSink) Emit(ctx context.Context, event models.LogEvent) error {
	l.logger.Info().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Ints("tids", event.TeamIDs).
		Int("score", event.Score).
		Bool("notify", event.ShowNotification).
		Msg(event.Text)
	return nil
}

func (l *LogSink) Signal(ctx context.Context, signal models.Signal) error {
	l.logger.Info().
		Str("type", string(signal.Type)).
		Int("gid", signal.GameID).
		Int("season", signal.Season).
		Msg("signal")
	return nil
}
