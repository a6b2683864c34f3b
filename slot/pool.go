package slot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/ringlet/envutil"
)

const defaultWorkerCount = 4

// Config controls the fan-out pool.
type Config struct {
	// Workers bounds how many machines run their slot at the same time.
	Workers int
}

// ConfigFromEnv reads RINGLET_WORKERS, falling back to a small default.
func ConfigFromEnv() Config {
	workers := envutil.Int("RINGLET_WORKERS",
		envutil.Default(defaultWorkerCount),
		envutil.Validate(positive),
	).ValueOrElse(defaultWorkerCount)

	return Config{Workers: workers}
}

var errNotPositive = errors.New("must be positive")

func positive(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", errNotPositive, n)
	}

	return nil
}

// NewPool creates a worker pool sized by cfg. The caller stops it with
// StopAndWait.
func NewPool(cfg Config) pond.Pool { //nolint:ireturn
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkerCount
	}

	slog.Debug("Initializing slot worker pool", "workers", workers)

	return pond.NewPool(workers)
}

// RunAll advances each runner by exactly one time slot on pool and waits for
// all of them. Results are returned in runner order. Runners must drive
// distinct machines. Failed slots leave a zero Result and their errors are
// joined.
func RunAll(ctx context.Context, pool pond.Pool, runners ...Slotted) (results []Result, err error) {
	ctx, span := startFanOutSpan(ctx, len(runners))
	defer func() { endSpan(span, err) }()

	results = make([]Result, len(runners))
	errs := make([]error, len(runners))
	tasks := make([]pond.Task, 0, len(runners))

	for i, runner := range runners {
		tasks = append(tasks, pool.Submit(func() {
			results[i], errs[i] = runner.Run(ctx)
		}))
	}

	for _, task := range tasks {
		if werr := task.Wait(); werr != nil {
			errs = append(errs, werr)
		}
	}

	return results, errors.Join(errs...)
}
