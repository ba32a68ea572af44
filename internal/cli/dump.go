package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/specialize/internal/ir"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Kind string
}

// DumpResult is the JSON payload of dump.
type DumpResult struct {
	Algorithm   string          `json:"algorithm"`
	Kind        string          `json:"kind"`
	Fingerprint string          `json:"fingerprint"`
	Unit        json.RawMessage `json:"unit"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <dot|fact>",
		Short: "Print the canonical IR of a specialized routine",
		Long: `Print the IR tree built for --kind as canonical JSON, followed by its
fingerprint. Identical trees always dump to identical bytes.

Examples:
  specialize dump dot --kind int32
  specialize dump fact --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "int32", "numeric kind (int32|int64|float32|float64)")

	return cmd
}

func runDump(opts *DumpOptions, arg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	u, err := buildFromArgs(arg, opts.Kind)
	if err != nil {
		return f.Fail("dump failed", err)
	}
	data, err := ir.MarshalCanonical(u)
	if err != nil {
		return f.Fail("dump failed", err)
	}
	fingerprint, err := ir.Fingerprint(u)
	if err != nil {
		return f.Fail("dump failed", err)
	}

	if opts.Format == "json" {
		return f.Success(DumpResult{
			Algorithm:   u.Name,
			Kind:        u.Kind.String(),
			Fingerprint: fingerprint,
			Unit:        json.RawMessage(data),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n", data)
	fmt.Fprintf(w, "fingerprint: %s\n", fingerprint)
	return nil
}
