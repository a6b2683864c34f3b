// Package slot runs machines one time slot at a time against a shared
// snapshot.Store: latch the current state's sensors, execute one ringlet
// cycle, publish the executed state's actuators.
//
// It is a reference harness for the scheduler side of the snapshot
// discipline. Deciding which machine runs when is left to the caller.
package slot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/amp-labs/ringlet/snapshot"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
)

// Result describes one completed time slot.
type Result struct {
	Machine    string
	Executed   string
	Next       string
	Slot       uint64
	Latched    snapshot.Frame
	Published  snapshot.Frame
	Generation uint64
}

// Slotted is anything that can run one time slot. *Runner implements it for
// every machine variable type, so machines of different families can be
// advanced together.
type Slotted interface {
	Run(ctx context.Context) (Result, error)
}

// Runner owns the exclusive right to step one machine. Run holds a mutex for
// the whole slot, so the machine's cells have no other writer while its
// ringlet executes.
type Runner[F any] struct {
	mu      sync.Mutex
	machine *fsm.Machine[F]
	store   *snapshot.Store
	slots   *atomic.Uint64 // Completed slots
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	logger *slog.Logger
}

// WithRunnerLogger sets the logger used for per-slot debug output.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(c *runnerConfig) {
		c.logger = logger
	}
}

// NewRunner binds machine to store. Every external cell of the machine that
// the store does not define yet is defined with the cell's current value.
func NewRunner[F any](machine *fsm.Machine[F], store *snapshot.Store, opts ...RunnerOption) *Runner[F] {
	cfg := runnerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store.DefineFrom(machine.External())

	return &Runner[F]{
		machine: machine,
		store:   store,
		slots:   atomic.NewUint64(0),
		logger:  cfg.logger,
	}
}

// Machine returns the machine the runner steps.
func (r *Runner[F]) Machine() *fsm.Machine[F] {
	return r.machine
}

// Slots returns the number of completed time slots.
func (r *Runner[F]) Slots() uint64 {
	return r.slots.Load()
}

// Run executes one time slot. The sensor set is recomputed from the current
// state on every call. A cancelled context fails before anything is latched.
func (r *Runner[F]) Run(ctx context.Context) (result Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	executed := r.machine.Current()

	ctx, span := startSlotSpan(ctx, r.machine.Name(), r.machine.ID().String(), executed.Name())
	defer func() { endSpan(span, err) }()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	latched, err := r.store.Latch(executed.Sensors())
	if err != nil {
		return Result{}, fmt.Errorf("latch sensors of %s/%s: %w", r.machine.Name(), executed.Name(), err)
	}

	r.machine.External().Load(latched)

	next := r.machine.Step()

	published := snapshot.Frame(r.machine.External().Extract(executed.Actuators()))
	if len(published) > 0 {
		if err := r.store.Publish(published); err != nil {
			return Result{}, fmt.Errorf("publish actuators of %s/%s: %w", r.machine.Name(), executed.Name(), err)
		}
	}

	slot := r.slots.Inc()

	span.SetAttributes(
		attribute.String("next_state", next.Name()),
		attribute.Int("sensors", len(latched)),
		attribute.Int("actuators", len(published)),
		attribute.Int64("slot", int64(slot)), //nolint:gosec
	)

	r.logger.DebugContext(ctx, "Time slot completed",
		"machine", r.machine.Name(),
		"executed", executed.Name(),
		"next", next.Name(),
		"slot", slot,
	)

	return Result{
		Machine:    r.machine.Name(),
		Executed:   executed.Name(),
		Next:       next.Name(),
		Slot:       slot,
		Latched:    latched,
		Published:  published,
		Generation: r.store.Generation(),
	}, nil
}
