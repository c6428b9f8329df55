package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// TTL constants
const (
	LiveSessionTTL    = 2 * time.Hour
	FinalSessionTTL   = 6 * time.Hour
	ActiveSessionsTTL = 24 * time.Hour
)

// ErrMiss is returned when a key is not cached
var ErrMiss = errors.New("not cached")

// RedisWriter keeps the latest increment of each live session in Redis so
// late joiners and other replicas can render the box score
type RedisWriter struct {
	client redis.Cmdable
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client redis.Cmdable) *RedisWriter {
	return &RedisWriter{
		client: client,
	}
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("session:%s:snapshot", sessionID)
}

func activeKey(sportKey string) string {
	return fmt.Sprintf("sessions:active:%s", sportKey)
}

// WriteSnapshot stores the latest increment. Finished sessions are kept
// longer and dropped from the sport's active set.
func (w *RedisWriter) WriteSnapshot(ctx context.Context, update models.LiveUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling live update: %w", err)
	}

	ttl := LiveSessionTTL
	if update.Done {
		ttl = FinalSessionTTL
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, snapshotKey(update.SessionID), data, ttl)
	if update.Done {
		pipe.SRem(ctx, activeKey(update.SportKey), update.SessionID)
	} else {
		pipe.SAdd(ctx, activeKey(update.SportKey), update.SessionID)
		pipe.Expire(ctx, activeKey(update.SportKey), ActiveSessionsTTL)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// ReadSnapshot retrieves the latest increment of a session
func (w *RedisWriter) ReadSnapshot(ctx context.Context, sessionID string) (*models.LiveUpdate, error) {
	data, err := w.client.Get(ctx, snapshotKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrMiss)
	}
	if err != nil {
		return nil, err
	}

	var update models.LiveUpdate
	if err := json.Unmarshal([]byte(data), &update); err != nil {
		return nil, fmt.Errorf("unmarshaling live update: %w", err)
	}

	return &update, nil
}

// ReadActiveSessions lists the sessions of a sport still being played back
func (w *RedisWriter) ReadActiveSessions(ctx context.Context, sportKey string) ([]string, error) {
	return w.client.SMembers(ctx, activeKey(sportKey)).Result()
}

// DeleteSnapshot removes a session's cached state
func (w *RedisWriter) DeleteSnapshot(ctx context.Context, sportKey, sessionID string) error {
	pipe := w.client.Pipeline()
	pipe.Del(ctx, snapshotKey(sessionID))
	pipe.SRem(ctx, activeKey(sportKey), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}
