package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"overtime-audit/config"
	"overtime-audit/database"
	"overtime-audit/handlers"
	"overtime-audit/middleware"
	"overtime-audit/store"
	"overtime-audit/transfer"
	"overtime-audit/wizard"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := middleware.NewLogger(os.Stdout, level, cfg.Env)
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	entries := store.New(db, cfg.EntriesTable)
	if err := entries.EnsureSchema(context.Background()); err != nil {
		logger.Error("failed to ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize handlers
	overtimeHandler := handlers.NewOvertimeHandler(entries, transfer.New(entries), logger)
	wizardHandler := handlers.NewWizardHandler(wizard.NewManager(entries), cfg.WizardIdle, logger)

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         logger,
		LogLevel:       level,
		AllowedOrigins: cfg.AllowedOrigins,
	}, overtimeHandler, wizardHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", slog.String("port", cfg.ServerPort), slog.String("table", entries.Table()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
	}
}
