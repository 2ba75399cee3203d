package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/operation"
)

func newEvalCommand(g *globalOptions) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate one expression",
		Long: `Evaluate one expression, with or without the color( ) wrapper, and print
the resulting literal. var() references resolve against the project's
design tokens.`,
		Example: `  color-adjust eval '#f00 darken(20)'
  color-adjust eval 'color(#bada55 saturate(20) darken(20))' --trace`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd)
			if err != nil {
				return err
			}

			expr := p.Transformer.Evaluate(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if trace {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, step := range expr.Outcome.Steps {
					fmt.Fprintf(w, "%s\t%s\t→ %s\n", step.Call, step.Input, step.Output)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, expr.Replacement())

			if !expr.Outcome.OK() {
				return fmt.Errorf("%s: %s: %w", expression.Message(expr.Outcome.Err), expr.Text, expr.Outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "print each operation as it is applied")
	return cmd
}

func newOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operations and their aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := operation.Default()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, kind := range operation.Kinds() {
				if kind == operation.Unknown {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\n", kind, strings.Join(reg.Aliases(kind), ", "))
			}
			return w.Flush()
		},
	}
}
