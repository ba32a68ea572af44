package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
	"github.com/roach88/specialize/internal/specialize"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	*RootOptions
	Kind string
	A    []string
	B    []string
}

// Evaluation is the payload of dot and fact.
type Evaluation struct {
	Algorithm string `json:"algorithm"`
	Kind      string `json:"kind"`
	Result    string `json:"result"`
}

// String renders the result alone, for text output.
func (e Evaluation) String() string { return e.Result }

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Compute a dot product with a specialized routine",
		Long: `Compute the dot product of two vectors with the routine specialized to --kind.

Vectors of different lengths are multiplied over the shorter length; empty
vectors yield zero.

Examples:
  specialize dot --a 1,2,3 --b 10,20,30
  specialize dot --kind float64 --a 1.5,2.5 --b 2,2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "int32", "numeric kind (int32|int64|float32|float64)")
	cmd.Flags().StringSliceVar(&opts.A, "a", nil, "first vector, comma-separated")
	cmd.Flags().StringSliceVar(&opts.B, "b", nil, "second vector, comma-separated")

	return cmd
}

func runDot(opts *DotOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	kind, err := parseKind(opts.Kind)
	if err != nil {
		return f.Fail("dot failed", err)
	}

	c := opts.cache(cmd)
	var result string
	switch kind {
	case ir.Int32:
		result, err = dotAs[int32](cmd.Context(), c, opts.A, opts.B)
	case ir.Int64:
		result, err = dotAs[int64](cmd.Context(), c, opts.A, opts.B)
	case ir.Float32:
		result, err = dotAs[float32](cmd.Context(), c, opts.A, opts.B)
	default:
		result, err = dotAs[float64](cmd.Context(), c, opts.A, opts.B)
	}
	if err != nil {
		return f.Fail("dot failed", err)
	}

	return f.Success(Evaluation{Algorithm: specialize.AlgorithmDotProduct, Kind: kind.String(), Result: result})
}

func dotAs[T ops.Number](ctx context.Context, c *specialize.Cache, a, b []string) (string, error) {
	x, err := ops.ParseAll[T](a)
	if err != nil {
		return "", badInput(prefixed("--a", err))
	}
	y, err := ops.ParseAll[T](b)
	if err != nil {
		return "", badInput(prefixed("--b", err))
	}
	dot, err := specialize.DotProductWith[T](ctx, c)
	if err != nil {
		return "", err
	}
	return ops.Format(dot(x, y)), nil
}
