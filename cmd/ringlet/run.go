package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/amp-labs/ringlet/fsm/factory"
	"github.com/amp-labs/ringlet/snapshot"
	"github.com/amp-labs/ringlet/slot"
	"github.com/amp-labs/ringlet/telemetry"
	"github.com/spf13/cobra"
)

var (
	errBadAssignment   = errors.New("assignment must be name=value")
	errUnknownExternal = errors.New("unknown external")
)

const telemetryShutdownTimeout = 5 * time.Second

type runOptions struct {
	slots uint64
	sets  []string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Simulate a guard-only definition slot by slot",
		Long: `Builds the definition with one predicate per bool external, seeds the
variable store from --set assignments and executes one ringlet cycle per time
slot until the exit state idles or --slots is reached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			return runDefinition(cmd.Context(), cmd.OutOrStdout(), def, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.slots, "slots", 10, "Maximum number of time slots")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Initial store value as name=value (repeatable)")

	return cmd
}

func runDefinition(ctx context.Context, out io.Writer, def *factory.Definition, opts runOptions) (err error) {
	cfg, err := telemetry.LoadConfigFromEnv("cli")
	if err != nil {
		return err
	}

	provider, err := telemetry.Initialize(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()

		err = errors.Join(err, provider.Shutdown(shutdownCtx))
	}()

	reg := factory.NewRegistry[struct{}]().BindExternals(def)

	machine, err := factory.Build(def, reg, struct{}{}, fsm.WithLogger(fsm.NewDefaultLogger(slog.Default())))
	if err != nil {
		return err
	}

	store := snapshot.NewStore()
	runner := slot.NewRunner(machine, store)

	frame, err := parseAssignments(def, opts.sets)
	if err != nil {
		return err
	}

	if len(frame) > 0 {
		if err := store.Publish(frame); err != nil {
			return err
		}
	}

	exit := def.ExitState()

	for range opts.slots {
		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "slot %d: %s -> %s\n", res.Slot, res.Executed, res.Next)

		if res.Executed == exit && res.Next == exit {
			break
		}
	}

	writeFrame(out, store.Snapshot())

	return nil
}

func parseAssignments(def *factory.Definition, sets []string) (snapshot.Frame, error) {
	frame := make(snapshot.Frame, len(sets))

	for _, set := range sets {
		name, raw, ok := strings.Cut(set, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errBadAssignment, set)
		}

		var ext *factory.ExternalDef

		for i := range def.Externals {
			if def.Externals[i].Name == name {
				ext = &def.Externals[i]

				break
			}
		}

		if ext == nil {
			return nil, fmt.Errorf("%w: %q", errUnknownExternal, name)
		}

		value, err := parseValue(ext.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("external %s: %w", name, err)
		}

		frame[name] = value
	}

	return frame, nil
}

func parseValue(typ, raw string) (any, error) {
	switch typ {
	case factory.TypeBool:
		return strconv.ParseBool(raw)
	case factory.TypeInt:
		return strconv.Atoi(raw)
	case factory.TypeFloat:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func writeFrame(out io.Writer, frame snapshot.Frame) {
	for _, name := range frame.Names() {
		fmt.Fprintf(out, "%s = %v\n", name, frame[name])
	}
}
