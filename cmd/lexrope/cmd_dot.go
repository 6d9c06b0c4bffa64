package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDotCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dot FILE",
		Short: "Print the rope built from FILE as a Graphviz digraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRope(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), r.Dot())
			return err
		},
	}
}
