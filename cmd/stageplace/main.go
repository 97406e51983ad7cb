package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paiv/icfpc2023/internal/cli"
	perrors "github.com/paiv/icfpc2023/pkg/errors"
)

// Exit statuses. Missing or truncated input is the solver's fatal case;
// everything else that fails (bad payload, config, network) gets its own code.
const (
	exitOK          = 0
	exitInput       = 1
	exitFailure     = 2
	exitInterrupted = 130 // Standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case perrors.IsInputFailure(err):
		return exitInput
	default:
		return exitFailure
	}
}
