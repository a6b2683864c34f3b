package main

import (
	"errors"
	"log/slog"

	"github.com/amp-labs/ringlet/fsm/factory"
	"github.com/amp-labs/ringlet/logger"
	"github.com/spf13/cobra"
)

var errInvalidDefinition = errors.New("definition is invalid")

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "ringlet",
		Short:         "Work with ringlet machine definitions",
		Long:          `ringlet lints, renders and runs YAML machine definitions slot by slot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts := []logger.Option{logger.WithOutput(cmd.ErrOrStderr())}
			if verbose {
				opts = append(opts, logger.WithMinLevel(slog.LevelDebug))
			}

			_, err := logger.ConfigureLogging("ringlet", opts...)

			return err
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every ringlet cycle")

	root.AddCommand(newValidateCmd(), newRenderCmd(), newRunCmd())

	return root
}

func loadDefinition(path string) (*factory.Definition, error) {
	return factory.LoadDefinitionFile(path)
}
