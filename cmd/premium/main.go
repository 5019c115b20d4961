package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/novaplan/premium/adapter/cli"
	"github.com/novaplan/premium/internal/app"
	"github.com/novaplan/premium/pkg/config"
	"github.com/novaplan/premium/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(cli.NewApp(container.Reconciler, container.Catalog))

	cli.Execute(ctx)
}
