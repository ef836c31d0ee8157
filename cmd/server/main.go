// Package main - Entry point for the size-convert HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"size-convert/internal/app"
	"size-convert/internal/config"
	"size-convert/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "config file (JSON or YAML)")
	addr := flag.String("addr", "", "server address (overrides server.addr)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()
	log := logging.Named("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("service_starting", zap.String("version", app.Version), zap.String("driver", cfg.Database.Driver))
	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal("startup_failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Error("http_server_error", zap.Error(err))
		return
	}
	log.Info("service_stopped")
}
