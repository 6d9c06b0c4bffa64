package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/lexrope/internal/engine/rope"
)

type lexOptions struct {
	start   int
	end     int
	line    int
	jsonOut bool
}

func newLexCmd(opts *globalOptions) *cobra.Command {
	lo := &lexOptions{}

	cmd := &cobra.Command{
		Use:   "lex FILE",
		Short: "Tokenize FILE, or a range of it, through the rope",
		Long: `Tokenize FILE through the rope. The range starts at --start (or at the
beginning of --line) and runs through --end, inclusive. Tokenizing starts
from the lexer state the text before the range leaves behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRope(args[0])
			if err != nil {
				return err
			}

			start, end := rope.Offset(lo.start), rope.Offset(lo.end)
			if lo.end < 0 {
				end = rope.Offset(r.Len() - 1)
			}
			if cmd.Flags().Changed("line") {
				start = rope.Point(lo.line, 0)
				if !cmd.Flags().Changed("end") {
					end = rope.Point(lo.line, r.LineLength(lo.line))
				}
			}

			tokens, err := r.Lexemes(start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for tok := range tokens {
				if lo.jsonOut {
					if err := enc.Encode(tok); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "%6d %6d  %-10s %q\n", tok.Start, tok.End, tok.Type, tok.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&lo.start, "start", 0, "First symbol offset of the range")
	cmd.Flags().IntVar(&lo.end, "end", -1, "Last symbol offset of the range (default: end of file)")
	cmd.Flags().IntVar(&lo.line, "line", 0, "Tokenize a single zero-based line")
	cmd.Flags().BoolVar(&lo.jsonOut, "json", false, "Print one JSON object per token")
	return cmd
}
