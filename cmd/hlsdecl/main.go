package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/hlsdecl/internal/cli"
)

// main is the entrypoint for the hlsdecl command. Commands print their own
// errors; cobra prints usage errors. main only maps the error to an exit code.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
