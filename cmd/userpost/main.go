package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/userpost/internal/app"
	"github.com/Adda-Baaj/userpost/internal/config"
	"github.com/Adda-Baaj/userpost/internal/logger"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "userpost failed: %v\n", err)
		os.Exit(1)
	}
}

// run loads config, posts once and prints the exchange to stdout.
// Diagnostics go to stderr; stdout only ever carries the two result lines.
func run(stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("userpost starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, log, app.WithRestyLogger(log.Sugar()))
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err)
		return err
	}

	return runner.Run(ctx, stdout)
}
