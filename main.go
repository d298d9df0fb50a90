package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/relabel/cmd"
	"github.com/thenoetrevino/relabel/internal/cli"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	err := cmd.Execute(ctx)
	cancel()
	if err == nil {
		return
	}

	var statusErr *cli.StatusError
	if !errors.As(err, &statusErr) || !statusErr.Reported() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCodeFor(err))
}
