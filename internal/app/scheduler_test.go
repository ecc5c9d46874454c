package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(context.Context) (int, error) {
	r.calls.Add(1)
	return 0, nil
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("every five minutes", time.UTC, &countingRunner{}, zap.NewNop())
	assert.Error(t, err)
}

func TestSchedulerDisabled(t *testing.T) {
	runner := &countingRunner{}
	s, err := NewScheduler("", time.UTC, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	assert.Zero(t, runner.calls.Load())
}

func TestSchedulerRunWatchSkipsCancelledContext(t *testing.T) {
	runner := &countingRunner{}
	s, err := NewScheduler("*/5 * * * *", time.UTC, runner, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s.runWatch(ctx)
	cancel()
	s.runWatch(ctx)

	assert.Equal(t, int32(1), runner.calls.Load())
}
