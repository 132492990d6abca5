// Package main implements the entry point for the task notification API
// server: user-owned tasks and reminders with outbound status-change
// notifications delivered through an HTTP gateway.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/servankarakurt/gorev-api/internal/config"
	"github.com/servankarakurt/gorev-api/internal/notify"
	"github.com/servankarakurt/gorev-api/internal/platform/logger"
	"github.com/servankarakurt/gorev-api/internal/platform/postgres"
	"github.com/servankarakurt/gorev-api/internal/service"
)

// shutdownTimeout bounds the graceful drain of in-flight HTTP requests.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Duration("scan_interval", cfg.Scanner.Interval))

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	// Stores
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	reminderStore := postgres.NewPostgresReminderStore(db, appLogger)
	userStore := postgres.NewPostgresUserStore(db, appLogger)

	// Notification pipeline
	gateway := notify.NewGatewayClient(cfg.Notification.GatewayURL, cfg.Notification.Timeout, appLogger)
	dispatcher := notify.NewDispatcher(
		service.NewIdentityAdapter(userStore),
		gateway,
		reminderStore,
		notify.DispatcherConfig{
			QueueSize:       cfg.Dispatcher.QueueSize,
			WorkerCount:     cfg.Dispatcher.WorkerCount,
			DispatchTimeout: cfg.Notification.Timeout,
		},
		appLogger,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	scanner := notify.NewScanner(reminderStore, dispatcher, notify.ScannerConfig{
		Interval:  cfg.Scanner.Interval,
		Retention: cfg.Scanner.Retention,
	}, appLogger)

	// Services
	taskService, err := service.NewTaskService(taskStore, dispatcher, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	reminderService, err := service.NewReminderService(reminderStore, time.Local, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create reminder service: %w", err)
	}

	// Background scanner lifecycle is tied to this context.
	scanCtx, cancelScan := context.WithCancel(context.Background())
	defer cancelScan()

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		scanner.Run(scanCtx)
	}()

	router := newRouter(taskService, reminderService, appLogger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("starting HTTP server", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		appLogger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	cancelScan()
	<-scanDone

	appLogger.Info("server shutdown completed")
	return nil
}
