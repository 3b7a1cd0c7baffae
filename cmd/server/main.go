package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/xlselect/internal/config"
	"github.com/JonMunkholm/xlselect/internal/core"
	"github.com/JonMunkholm/xlselect/internal/logging"
	"github.com/JonMunkholm/xlselect/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	service := core.NewService(core.ServiceConfig{
		Options: core.Options{
			AllowedExtensions: cfg.Upload.AllowedExtensions,
			ExportFileName:    cfg.Export.FileName,
			ExportSheetName:   cfg.Export.SheetName,
		},
		SessionTTL:           cfg.Session.TTL,
		MaxSessions:          cfg.Session.Max,
		MaxFileSize:          cfg.Upload.MaxFileSize,
		MaxConcurrentIngests: cfg.Upload.MaxConcurrent,
		MaxIngestWait:        cfg.Upload.MaxWaitTime,
	})

	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartSweeper(jobCtx, cfg.Session.SweepInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for ingests to complete", "active", status.Active)
			if err := service.WaitForIngests(shutdownCtx); err != nil {
				slog.Warn("ingests did not complete in time", "error", err)
			} else {
				slog.Info("all ingests completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
