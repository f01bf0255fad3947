package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/logger"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults when empty)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("sharedqueue failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*settings.Config, error) {
	if path == "" {
		return settings.Default(), nil
	}
	return settings.Load(path)
}
