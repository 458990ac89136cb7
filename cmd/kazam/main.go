// Package main is the entry point for the kazam CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"kazam/internal/backend/kazamapi"
	"kazam/internal/cli"
	"kazam/internal/commands"
	"kazam/internal/config"
	"kazam/internal/service"

	// Import all command packages to register them via init()
	_ "kazam/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config, src oauth2.TokenSource, logger *slog.Logger) (service.Service, error) {
		return kazamapi.New(cfg.BaseURL, src, logger), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
