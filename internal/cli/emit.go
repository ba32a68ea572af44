package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/specialize/internal/emit"
	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/specialize"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	Kind     string
	Package  string
	FuncName string
	Output   string
}

// EmitResult is the JSON payload of emit.
type EmitResult struct {
	Algorithm   string `json:"algorithm"`
	Kind        string `json:"kind"`
	Func        string `json:"func"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source,omitempty"`
	Output      string `json:"output,omitempty"`
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <dot|fact>",
		Short: "Emit Go source for a specialized routine",
		Long: `Render the routine specialized to --kind as a standalone Go function.

The IR is checked with the same rules the compiler applies before any source
is produced.

Examples:
  specialize emit dot --kind int64
  specialize emit fact --package kernels --func Factorial -o factorial.go`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "int32", "numeric kind (int32|int64|float32|float64)")
	cmd.Flags().StringVar(&opts.Package, "package", emit.DefaultPackage, "package clause of the generated file")
	cmd.Flags().StringVar(&opts.FuncName, "func", "", "function name (default: algorithm and kind, e.g. dotInt64)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the source to a file instead of stdout")

	return cmd
}

func runEmit(opts *EmitOptions, arg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	u, err := buildFromArgs(arg, opts.Kind)
	if err != nil {
		return f.Fail("emit failed", err)
	}

	renderOpts := []emit.Option{emit.WithPackage(opts.Package)}
	funcName := emit.FuncName(u)
	if opts.FuncName != "" {
		funcName = opts.FuncName
		renderOpts = append(renderOpts, emit.WithFuncName(funcName))
	}
	src, err := emit.Render(u, renderOpts...)
	if err != nil {
		return f.Fail("emit failed", err)
	}
	fingerprint, err := ir.Fingerprint(u)
	if err != nil {
		return f.Fail("emit failed", err)
	}
	f.VerboseLog("emitted %s for %v (fingerprint %s)", funcName, u.Kind, fingerprint)

	result := EmitResult{
		Algorithm:   u.Name,
		Kind:        u.Kind.String(),
		Func:        funcName,
		Fingerprint: fingerprint,
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, src, 0644); err != nil {
			return f.Fail("emit failed", fmt.Errorf("failed to write output: %w", err))
		}
		result.Output = opts.Output
		if opts.Format == "json" {
			return f.Success(result)
		}
		return f.Success(fmt.Sprintf("wrote %s to %s", funcName, opts.Output))
	}

	if opts.Format == "json" {
		result.Source = string(src)
		return f.Success(result)
	}
	_, err = cmd.OutOrStdout().Write(src)
	return err
}

// buildFromArgs builds the unit named by an algorithm argument and a kind
// flag.
func buildFromArgs(algorithm, kindName string) (*ir.Unit, error) {
	name, err := algorithmArg(algorithm)
	if err != nil {
		return nil, err
	}
	kind, err := parseKind(kindName)
	if err != nil {
		return nil, err
	}
	return specialize.BuildUnit(name, kind)
}
