package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
	"github.com/roach88/specialize/internal/specialize"
)

// FactOptions holds flags for the fact command.
type FactOptions struct {
	*RootOptions
	Kind string
}

// NewFactCommand creates the fact command.
func NewFactCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fact <n>",
		Short: "Compute a factorial with a specialized routine",
		Long: `Compute n! with the routine specialized to --kind (int32 by default).

Any n <= 1, negative values included, yields 1. Integer results wrap on
overflow. Pass negative values after "--".

Examples:
  specialize fact 5
  specialize fact --kind int64 20
  specialize fact -- -3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFact(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "int32", "numeric kind (int32|int64|float32|float64)")

	return cmd
}

func runFact(opts *FactOptions, arg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	kind, err := parseKind(opts.Kind)
	if err != nil {
		return f.Fail("fact failed", err)
	}

	c := opts.cache(cmd)
	n := strings.TrimSpace(arg)
	var result string
	switch kind {
	case ir.Int32:
		result, err = factAs[int32](cmd.Context(), c, n)
	case ir.Int64:
		result, err = factAs[int64](cmd.Context(), c, n)
	case ir.Float32:
		result, err = factAs[float32](cmd.Context(), c, n)
	default:
		result, err = factAs[float64](cmd.Context(), c, n)
	}
	if err != nil {
		return f.Fail("fact failed", err)
	}

	return f.Success(Evaluation{Algorithm: specialize.AlgorithmFactorial, Kind: kind.String(), Result: result})
}

func factAs[T ops.Number](ctx context.Context, c *specialize.Cache, arg string) (string, error) {
	n, err := ops.Parse[T](arg)
	if err != nil {
		return "", badInput(err)
	}
	fact, err := specialize.FactorialOf[T](ctx, c)
	if err != nil {
		return "", err
	}
	return ops.Format(fact(n)), nil
}
