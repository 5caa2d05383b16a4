package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/leettrack/internal/api"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/config"
	"github.com/vytor/leettrack/internal/logger"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LeetTrack Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage_backend=%s", cfg.StorageBackend)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("data_dir=%s", cfg.DataDir)
	log.Debug("storage_key=%s", cfg.StorageKey)
	log.Debug("timezone=%s", cfg.Location())
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("enrich_worker_count=%d", cfg.EnrichWorkerCount)
	log.Debug("enrich_queue_size=%d", cfg.EnrichQueueSize)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	tracker, err := app.New(startCtx, cfg, app.Options{Enrich: true})
	startCancel()
	if err != nil {
		log.Error("failed to start tracker: %v", err)
		os.Exit(1)
	}

	checks := make(map[string]api.HealthCheck, len(tracker.ReadyChecks))
	for name, check := range tracker.ReadyChecks {
		checks[name] = check
	}

	srv := &api.Server{
		ProblemService:   tracker.Problems,
		ExtensionService: tracker.Extension,
		Location:         cfg.Location(),
		ReadyChecks:      checks,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Flush pending writes and stop workers
	if err := tracker.Close(shutdownCtx); err != nil {
		log.Error("tracker shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("LeetTrack Server Stopped")
	log.Info("===========================================")
}
