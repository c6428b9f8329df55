package cache

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// newTestWriter connects to GAME_RESULTS_TEST_REDIS (host:port) and flushes
// the selected database.
func newTestWriter(t *testing.T) *RedisWriter {
	t.Helper()
	addr := os.Getenv("GAME_RESULTS_TEST_REDIS")
	if addr == "" {
		t.Skip("GAME_RESULTS_TEST_REDIS not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(context.Background()).Err())

	return NewRedisWriter(client)
}

func TestSnapshotKeys(t *testing.T) {
	assert.Equal(t, "session:abc:snapshot", snapshotKey("abc"))
	assert.Equal(t, "sessions:active:hockey", activeKey("hockey"))
}

func TestRedisWriter_SnapshotRoundTrip(t *testing.T) {
	w := newTestWriter(t)
	ctx := context.Background()

	update := models.LiveUpdate{
		SessionID: "s1",
		GameID:    12,
		SportKey:  "american_football",
		Text:      "1st & 10",
		Quarters:  []string{"Q1"},
		BoxScore:  &models.BoxScore{GameID: 12, Quarter: "1st quarter"},
	}
	require.NoError(t, w.WriteSnapshot(ctx, update))

	got, err := w.ReadSnapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1st & 10", got.Text)
	assert.Equal(t, "1st quarter", got.BoxScore.Quarter)

	active, err := w.ReadActiveSessions(ctx, "american_football")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, active)

	update.Done = true
	require.NoError(t, w.WriteSnapshot(ctx, update))
	active, err = w.ReadActiveSessions(ctx, "american_football")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRedisWriter_Miss(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.ReadSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}
