// Command contactdeck browses a paginated contact list in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/contactdeck/internal/cli"
	"github.com/rshade/contactdeck/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		return cli.ExitCode(err)
	}
	return 0
}
