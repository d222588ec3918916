// Package main is the entry point for the ptask CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ptask/internal/backend/httpapi"
	"ptask/internal/cli"
	"ptask/internal/commands"
	"ptask/internal/config"
	"ptask/internal/service"
	"ptask/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config, store session.Store, onTeardown func()) (service.Service, error) {
		return httpapi.New(cfg, store, onTeardown, commands.UserAgent()), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
