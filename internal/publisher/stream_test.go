package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

type fakeAdder struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestStreamSink_Emit(t *testing.T) {
	adder := &fakeAdder{}
	sink := &StreamSink{client: adder, maxLen: 1000}

	event := models.LogEvent{ID: "abc", Type: models.LogPlayerFeat, Text: "Big game", TeamIDs: []int{3}}
	require.NoError(t, sink.Emit(context.Background(), event))

	require.Len(t, adder.calls, 1)
	args := adder.calls[0]
	assert.Equal(t, EventStream, args.Stream)
	assert.Equal(t, int64(1000), args.MaxLen)
	assert.True(t, args.Approx)

	values := args.Values.(map[string]interface{})
	assert.Equal(t, "playerFeat", values["type"])
	assert.Equal(t, "abc", values["event_id"])

	var decoded models.LogEvent
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, "Big game", decoded.Text)
}

func TestStreamSink_Signal(t *testing.T) {
	adder := &fakeAdder{}
	sink := &StreamSink{client: adder}

	require.NoError(t, sink.Signal(context.Background(), models.Signal{Type: models.SignalSeriesUpdated, GameID: 9}))

	require.Len(t, adder.calls, 1)
	assert.Equal(t, SignalStream, adder.calls[0].Stream)
	assert.Zero(t, adder.calls[0].MaxLen)
	values := adder.calls[0].Values.(map[string]interface{})
	assert.Equal(t, 9, values["gid"])
}

func TestStreamSink_LiveUpdateUsesSportStream(t *testing.T) {
	adder := &fakeAdder{}
	sink := &StreamSink{client: adder}

	update := models.LiveUpdate{SessionID: "s1", GameID: 4, SportKey: "hockey", Done: true}
	require.NoError(t, sink.PublishLiveUpdate(context.Background(), update))

	require.Len(t, adder.calls, 1)
	assert.Equal(t, "games.live.hockey", adder.calls[0].Stream)
	values := adder.calls[0].Values.(map[string]interface{})
	assert.Equal(t, "s1", values["session_id"])
	assert.Equal(t, true, values["done"])
}

func TestStreamSink_ErrorWrapped(t *testing.T) {
	boom := errors.New("redis down")
	sink := &StreamSink{client: &fakeAdder{err: boom}}

	err := sink.Emit(context.Background(), models.LogEvent{Type: models.LogAward})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), EventStream)
}
