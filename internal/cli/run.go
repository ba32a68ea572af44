package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Execute runs the CLI with args and returns the process exit code.
//
// Commands report their own failures in the selected format and return an
// ExitError; anything else (unknown flags, wrong argument counts) is printed
// here and exits with ExitCommandError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}
