package bridge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunScheduler_RunOnce(t *testing.T) {
	scheduler := NewDefaultRunScheduler(0, true, log.New())

	var calls atomic.Int32
	scheduler.RegisterCallback(func() error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, scheduler.Start(context.Background()))
	assert.Equal(t, int32(1), calls.Load(), "run-once executes the callback synchronously, exactly once")
	assert.False(t, scheduler.Stopped())

	require.NoError(t, scheduler.Stop())
	assert.True(t, scheduler.Stopped())
}

func TestDefaultRunScheduler_RunOnceCallbackError(t *testing.T) {
	scheduler := NewDefaultRunScheduler(0, true, log.New())

	expected := errors.New("catalog load failed")
	scheduler.RegisterCallback(func() error { return expected })

	err := scheduler.Start(context.Background())
	assert.ErrorIs(t, err, expected)
}

func TestDefaultRunScheduler_Periodic(t *testing.T) {
	scheduler := NewDefaultRunScheduler(10*time.Millisecond, false, log.New())

	callChan := make(chan struct{}, 10)
	scheduler.RegisterCallback(func() error {
		select {
		case callChan <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, scheduler.Start(context.Background()))

	// One immediate run plus at least one periodic run.
	for i := 0; i < 2; i++ {
		select {
		case <-callChan:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for run %d", i+1)
		}
	}

	require.NoError(t, scheduler.Stop())
	assert.True(t, scheduler.Stopped())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, scheduler.WaitForShutdown(ctx))
}

func TestDefaultRunScheduler_NoCallback(t *testing.T) {
	scheduler := NewDefaultRunScheduler(time.Minute, false, log.New())

	err := scheduler.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callback must be registered")
}

func TestDefaultRunScheduler_StopWithoutStart(t *testing.T) {
	scheduler := NewDefaultRunScheduler(time.Minute, false, log.New())

	assert.True(t, scheduler.Stopped())
	require.NoError(t, scheduler.Stop())
	require.NoError(t, scheduler.Stop(), "repeated stops are harmless")
}

func TestDefaultRunScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewDefaultRunScheduler(time.Hour, false, log.New())
	scheduler.RegisterCallback(func() error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, scheduler.Start(ctx))
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, scheduler.WaitForShutdown(waitCtx))
	assert.True(t, scheduler.Stopped())
}
