// Command specialize builds numeric routines as IR trees, compiles them for
// a concrete kind and evaluates, dumps or emits them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/specialize/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
