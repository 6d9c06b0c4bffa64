package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print the size and shape of the rope built from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRope(args[0])
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return err
			}

			cfg := r.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:         %s\n", args[0])
			fmt.Fprintf(out, "symbols:      %d\n", r.Len())
			fmt.Fprintf(out, "lines:        %d\n", r.LineCount())
			fmt.Fprintf(out, "height:       %d\n", r.Height())
			fmt.Fprintf(out, "leaves:       %d\n", r.LeafCount())
			fmt.Fprintf(out, "split length: %d\n", cfg.SplitLength)
			fmt.Fprintf(out, "join length:  %d\n", cfg.JoinLength)
			fmt.Fprintf(out, "lexer states: %d\n", cfg.Lexer.States())
			return nil
		},
	}
}
