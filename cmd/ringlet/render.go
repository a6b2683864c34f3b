package main

import (
	"fmt"

	"github.com/amp-labs/ringlet/fsm/visualizer"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	opts := visualizer.DefaultOptions()

	var plain, noSnapshots bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a definition as a Mermaid state diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			out, err := visualizer.DefinitionWithOptions(def,
				opts.WithFenced(!plain).WithShowSnapshots(!noSnapshots))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Direction, "direction", opts.Direction, "Diagram direction: TB or LR")
	cmd.Flags().BoolVar(&opts.ShowOrder, "order", false, "Number transitions in evaluation order")
	cmd.Flags().StringSliceVar(&opts.HighlightPath, "highlight", nil, "States to highlight")
	cmd.Flags().BoolVar(&plain, "plain", false, "Omit the markdown code fence")
	cmd.Flags().BoolVar(&noSnapshots, "no-snapshots", false, "Omit sensors and actuators")

	return cmd
}
