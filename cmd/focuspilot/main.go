// Package main is the entry point for the focus-pilot CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/focus-pilot/internal/app"
	"github.com/runoshun/focus-pilot/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Create dependency injection container
	container, err := app.New(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}
