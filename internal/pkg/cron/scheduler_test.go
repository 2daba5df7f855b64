package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob_InvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC)

	err := s.AddJob("broken", "not a spec", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(nil)
	calls := 0

	require.NoError(t, s.AddJob("first", "0 2 25 * *", func(ctx context.Context) error {
		calls++
		return nil
	}))
	require.NoError(t, s.AddJob("failing", "@daily", func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	}))

	s.RunOnce(context.Background())
	assert.Equal(t, 2, calls)
	assert.Len(t, s.Jobs(), 2)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	require.NoError(t, s.AddJob("noop", "@every 1h", func(ctx context.Context) error { return nil }))

	s.Start()
	s.Stop()
}
