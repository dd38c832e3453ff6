// Command lumiere is the terminal client for the Lumière cooking assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hammamikhairi/lumiere/internal/config"
	"github.com/hammamikhairi/lumiere/internal/conversation"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", conversation.Describe(err))
		cancel()
		os.Exit(exitCode(err))
	}
}
