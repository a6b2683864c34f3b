// Package shutdown ties a process's lifetime to termination signals. Hooks
// registered with BeforeShutdown run while the returned context is still
// alive, then the context is cancelled.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns one signal subscription.
type Handler struct {
	mu      sync.Mutex
	hooks   []func()
	signals chan os.Signal
	cancel  context.CancelFunc
	once    sync.Once
	done    chan struct{}
}

// SetupHandler subscribes to SIGINT and SIGTERM, or to the given signals, and
// returns a context derived from parent that is cancelled once a signal
// arrives or Shutdown is called.
func SetupHandler(parent context.Context, sigs ...os.Signal) (*Handler, context.Context) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		signals: make(chan os.Signal, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	signal.Notify(h.signals, sigs...)

	go func() {
		select {
		case sig := <-h.signals:
			slog.Warn("Received " + sig.String() + ", shutting down...")
			h.trigger()
		case <-ctx.Done():
			h.trigger()
		case <-h.done:
		}
	}()

	return h, ctx
}

// BeforeShutdown registers a function to run before the context is
// cancelled. Hooks run in registration order.
func (h *Handler) BeforeShutdown(hook func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, hook)
}

// Shutdown triggers the shutdown programmatically and waits for the hooks.
func (h *Handler) Shutdown() {
	h.trigger()
}

// Stop releases the signal subscription without running hooks, for a
// process that exits normally. The context is cancelled.
func (h *Handler) Stop() {
	h.once.Do(func() {
		signal.Stop(h.signals)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) trigger() {
	h.once.Do(func() {
		signal.Stop(h.signals)
		h.cleanup()
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) cleanup() {
	h.mu.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}
