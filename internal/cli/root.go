package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/specialize"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Logger overrides the stderr logger derived from Verbose.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the specialize CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "specialize",
		Short: "Kind-specialized numeric routines",
		Long: `Build numeric routines as IR trees and compile them for a concrete kind.

The dot product and factorial are available for int32, int64, float32 and
float64. Routines can be evaluated, dumped as canonical IR or emitted as Go
source, and YAML scenarios of calls can be checked against golden reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewDotCommand(opts))
	cmd.AddCommand(NewFactCommand(opts))
	cmd.AddCommand(NewEmitCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger returns Logger, or a text logger on the command's stderr at debug
// level with --verbose and warn level otherwise.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// cache returns a routine cache that logs through the command's logger.
func (o *RootOptions) cache(cmd *cobra.Command) *specialize.Cache {
	return specialize.NewCache(specialize.WithLogger(o.logger(cmd)))
}

// parseKind parses a --kind value, reporting unknown names as E103.
func parseKind(name string) (ir.Kind, error) {
	kind, err := ir.ParseKind(name)
	if err != nil {
		return ir.Void, err
	}
	if !kind.IsNumeric() {
		return ir.Void, &ir.UnsupportedTypeError{Kind: kind}
	}
	return kind, nil
}

// algorithmArg resolves the algorithm argument of emit and dump. "fact" is
// accepted for factorial.
func algorithmArg(arg string) (string, error) {
	if arg == "fact" {
		return specialize.AlgorithmFactorial, nil
	}
	if !slices.Contains(specialize.Algorithms(), arg) {
		return "", badInput(fmt.Errorf("unknown algorithm %q (want one of %v)", arg, specialize.Algorithms()))
	}
	return arg, nil
}

// prefixed prepends name to err, as in "--a[1]: parse int32: ...".
func prefixed(name string, err error) error {
	return fmt.Errorf("%s%w", name, err)
}
