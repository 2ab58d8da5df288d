// Package main is the entry point for the EventPulse API server.
//
// It loads configuration, connects the PostgreSQL event store, wires the
// advisor (or its local stub when no API key is configured), starts the
// portfolio refresh loop, and serves the HTTP API with the core chassis
// (middleware, routing, health checks).
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"eventpulse/internal/advisor"
	"eventpulse/internal/api/handlers"
	"eventpulse/internal/config"
	"eventpulse/internal/core"
	"eventpulse/internal/db"
	"eventpulse/internal/portfolio"
	"eventpulse/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("eventpulse API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Event store.
	pool, err := db.NewPool(rootCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()
	eventRepo := db.NewEventRepository(pool)

	// Advisor: real upstream client when a key is configured, local stub
	// otherwise so the dashboard works without credentials.
	var reports types.ReportGenerator
	if cfg.Advisor.APIKey.Unmask() != "" {
		reports = advisor.NewGemini(cfg.Advisor, logger)
	} else {
		logger.Warn("no advisor API key configured; using local stub generator")
		reports = advisor.NewStubGenerator(logger)
	}

	// Portfolio service owns the rule engine and the refresh loop.
	svc := portfolio.NewService(portfolio.ServiceConfig{
		Repo:            eventRepo,
		Clock:           types.SystemClock{},
		Logger:          logger,
		RefreshInterval: cfg.Alerting.RefreshInterval,
	})

	// HTTP chassis.
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.HealthProbes = append(srv.HealthProbes, db.NewProbe(pool))

	eventHandler := handlers.NewEventHandler(eventRepo, svc, reports, srv.Validator, logger)
	alertHandler := handlers.NewAlertHandler(svc, reports, logger)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { eventHandler.RegisterRoutes(r) },
		func(r chi.Router) { alertHandler.RegisterRoutes(r) },
	)

	srv.MountRoutes()

	// Run the HTTP server and the refresh loop until a signal or failure.
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("refresh loop: %w", err)
		}
		return nil
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler)
}
