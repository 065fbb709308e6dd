// Command dbgbridge runs the debug-operation relay over stdio. Requests
// arrive one JSON object per line on stdin; responses leave on stdout. Logs
// go to stderr so they never pollute the response stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvail/dbgbridge"
	"github.com/nvail/dbgbridge/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "dbgbridge:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Logging)

	opts := []dbgbridge.Option{
		dbgbridge.WithLogger(log),
		dbgbridge.WithBridgeTimeout(cfg.BridgeTimeout()),
	}

	if cfg.Bridge.Command != "" {
		opts = append(opts, dbgbridge.WithBridgeCommand(log, cfg.Bridge.Command, cfg.Bridge.Args...))
	} else {
		log.Warn("No bridge command configured, running in local-only mode")
	}

	server, err := dbgbridge.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, os.Stdin, os.Stdout)
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo

	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}
