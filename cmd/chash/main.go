package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chash/pkg/metrics"
)

const defaultConfigPath = "config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := defaultConfigPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := initConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(&cfg)

	collector := metrics.NewPrometheus()
	if err := run(ctx, cfg, os.Stdout, collector); err != nil {
		slog.Error("benchmark failed", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Error("metrics not written", "error", err)
			os.Exit(1)
		}
		slog.Info("metrics written", "path", cfg.Metrics.Textfile)
	}
}
