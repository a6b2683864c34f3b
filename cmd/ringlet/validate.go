package main

import (
	"fmt"

	"github.com/amp-labs/ringlet/fsm/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Lint a definition",
		Long:  `Checks a definition for unreachable states, shadowed transitions and snapshot declarations naming no external.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := validator.ValidateFileWithOptions(args[0], strict)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), result.String())

			for _, s := range result.Suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", s.Message)
			}

			if !result.Valid {
				return errInvalidDefinition
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
