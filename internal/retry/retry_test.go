package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(p *Policy) *Policy {
	p.sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

func TestExecute_SucceedsAfterFailures(t *testing.T) {
	p := noSleep(NewPolicy(3, 10*time.Millisecond))
	calls := 0

	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_GivesUp(t *testing.T) {
	p := noSleep(NewPolicy(2, time.Millisecond))
	boom := errors.New("boom")

	err := p.Execute(context.Background(), func(context.Context) error { return boom })

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestExecute_PermanentStopsImmediately(t *testing.T) {
	p := noSleep(NewPolicy(5, time.Millisecond))
	calls := 0
	bad := errors.New("bad record")

	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return Permanent(bad)
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, bad))
}

func TestExecute_ContextCancelled(t *testing.T) {
	p := NewPolicy(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := p.Execute(ctx, func(context.Context) error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "interrupted")
}
