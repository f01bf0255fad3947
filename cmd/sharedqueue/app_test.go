package main

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
)

func TestRun_FiniteSession(t *testing.T) {
	cfg := settings.Default()
	cfg.Producer.Messages = 50
	cfg.Producer.Interval = 0
	cfg.Queue.Capacity = 3

	core, logs := observer.New(zapcore.InfoLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx, cfg, zap.New(core)); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if got := logs.FilterMessage("consumed").Len(); got != 50 {
		t.Errorf("logged %d consumed messages, want 50", got)
	}
}

func TestRun_InvalidPolicy(t *testing.T) {
	cfg := settings.Default()
	cfg.Queue.OverflowPolicy = "spill"

	if err := run(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("run() with unknown policy should fail")
	}
}

func TestBuildSinks_Unknown(t *testing.T) {
	cfg := settings.Default()
	cfg.Sinks = []string{"log", "stdout"}

	if _, err := buildSinks(cfg, zap.NewNop()); err == nil {
		t.Error("buildSinks() with unknown sink should fail")
	}
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	if cfg.Consumer.Workers != 5 {
		t.Errorf("Consumer.Workers = %d, want 5", cfg.Consumer.Workers)
	}
}
