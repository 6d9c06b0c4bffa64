package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/lexrope/internal/engine/lexer"
	"github.com/dshills/lexrope/internal/engine/rope"
)

type checkOptions struct {
	edits int
	seed  uint64
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	co := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Apply random edits to FILE's rope and audit the tree after each",
		Long: `Apply random inserts, removals and split/append round trips to the rope
built from FILE. After every edit the text is compared with a flat copy
and the tree is audited. At the end the lexer state of the whole document
is compared with a scan of the flat copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRope(args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			if err := soak(r, co.edits, co.seed); err != nil {
				return err
			}
			opts.logger.Info("check passed",
				"file", args[0],
				"edits", co.edits,
				"seed", co.seed,
				"elapsed", time.Since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d edits, %d symbols, height %d\n", co.edits, r.Len(), r.Height())
			return nil
		},
	}

	cmd.Flags().IntVar(&co.edits, "edits", 1000, "Number of random edits")
	cmd.Flags().Uint64Var(&co.seed, "seed", 1, "Random seed")
	return cmd
}

// soak applies random edits to r and a flat copy of its text, failing at
// the first divergence or audit error.
func soak(r *rope.Rope, edits int, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	model := []rune(r.String())
	alphabet := []rune("abc xyz 123\n\t/*\"'#")

	randomText := func() string {
		out := make([]rune, 1+rng.IntN(2*r.Config().SplitLength/3+1))
		if rng.IntN(8) != 0 {
			out = out[:min(len(out), 1+rng.IntN(16))]
		}
		for i := range out {
			out[i] = alphabet[rng.IntN(len(alphabet))]
		}
		return string(out)
	}

	for step := range edits {
		var err error
		switch op := rng.IntN(10); {
		case op < 5 || len(model) == 0:
			i := rng.IntN(len(model) + 1)
			text := randomText()
			err = r.Insert(rope.Offset(i), text)
			model = slices.Insert(model, i, []rune(text)...)
		case op < 9:
			a := rng.IntN(len(model))
			b := min(a+rng.IntN(64), len(model)-1)
			err = r.Remove(rope.Offset(a), rope.Offset(b))
			model = slices.Delete(model, a, b+1)
		default:
			var tail *rope.Rope
			tail, err = r.Split(rope.Offset(rng.IntN(len(model) + 1)))
			if err == nil {
				r.Append(tail)
			}
		}
		if err != nil {
			return fmt.Errorf("edit %d: %w", step, err)
		}
		if r.Len() != len(model) {
			return fmt.Errorf("edit %d: rope holds %d symbols, expected %d", step, r.Len(), len(model))
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("edit %d: %w", step, err)
		}
	}

	if got := r.String(); got != string(model) {
		return fmt.Errorf("text diverged after %d edits", edits)
	}
	lex := r.Config().Lexer
	want := lex.LastState(string(model), lexer.StateNormal)
	got, err := r.State(rope.Offset(r.Len()))
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("final lexer state %v, expected %v", got, want)
	}
	return nil
}
