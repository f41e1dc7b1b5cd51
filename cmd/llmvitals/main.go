package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/config"
	"github.com/llmvitals/llmvitals/internal/logging"
	"github.com/llmvitals/llmvitals/internal/monitor"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := flag.String("config", defaultConfigPath(), "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return monitor.ExitConfigError
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return monitor.ExitConfigError
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := monitor.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup_error", zap.Error(err))
		return monitor.ExitConfigError
	}

	logger.Info("monitor_start",
		zap.String("config", *path),
		zap.String("environment", cfg.Environment),
		zap.Bool("recurring", cfg.Recurring()),
	)
	return m.Run(ctx)
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "llmvitals.yaml"
}
