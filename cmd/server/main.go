// Command server is the entry point for the HustleHub API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hustlehub/internal/config"
	"hustlehub/internal/middleware"
	"hustlehub/internal/observability"
	"hustlehub/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.IsProduction())

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    cfg.AppName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.NewServer(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("Server shutdown error", "error", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("Tracer shutdown error", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}
