package shutdown

import (
	"context"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestShutdownRunsHooksInOrder(t *testing.T) {
	t.Parallel()

	h, ctx := SetupHandler(context.Background())

	var order []int

	h.BeforeShutdown(func() { order = append(order, 1) })
	h.BeforeShutdown(func() { order = append(order, 2) })
	h.BeforeShutdown(func() { order = append(order, 3) })

	h.Shutdown()
	waitDone(t, ctx)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestHooksRunBeforeCancel(t *testing.T) {
	t.Parallel()

	h, ctx := SetupHandler(context.Background())

	var alive atomic.Bool

	h.BeforeShutdown(func() {
		alive.Store(ctx.Err() == nil)
	})

	h.Shutdown()
	waitDone(t, ctx)

	assert.True(t, alive.Load())
}

func TestShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	h, ctx := SetupHandler(context.Background())

	var calls atomic.Int32

	h.BeforeShutdown(func() { calls.Add(1) })

	h.Shutdown()
	h.Shutdown()
	h.Stop()
	waitDone(t, ctx)

	assert.Equal(t, int32(1), calls.Load())
}

func TestStopSkipsHooks(t *testing.T) {
	t.Parallel()

	h, ctx := SetupHandler(context.Background())

	var called atomic.Bool

	h.BeforeShutdown(func() { called.Store(true) })

	h.Stop()
	waitDone(t, ctx)

	assert.False(t, called.Load())
}

func TestParentCancelRunsHooks(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	h, ctx := SetupHandler(parent)

	var called atomic.Bool

	h.BeforeShutdown(func() { called.Store(true) })

	cancel()
	waitDone(t, ctx)

	assert.Eventually(t, called.Load, time.Second, 10*time.Millisecond)
}

//nolint:paralleltest // Delivers a process-wide signal
func TestSignalTriggersShutdown(t *testing.T) {
	h, ctx := SetupHandler(context.Background(), syscall.SIGUSR1)

	var called atomic.Bool

	h.BeforeShutdown(func() { called.Store(true) })

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	waitDone(t, ctx)

	assert.True(t, called.Load())
}
