package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "remindee/internal/application/service"

	// Infrastructure Layer
	"remindee/internal/infrastructure/database/sqlite"
	"remindee/internal/infrastructure/scheduler"
	"remindee/internal/infrastructure/telegram"

	// Interfaces Layer
	"remindee/internal/interfaces/api/handler"
	"remindee/internal/interfaces/api/router"

	// Packages
	"remindee/internal/pkg/config"
	appLogger "remindee/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(appLog appLogger.Logger, apiServer *http.Server, dispatcher appService.DispatchService, db *gorm.DB, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	appLog.Info("Shutting down gracefully, press Ctrl+C again to force")

	// Stop dispatching first so no cycle runs against a closed database.
	dispatcher.Stop()
	appLog.Info("Dispatcher stopped.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", err)
	}

	if err := sqlite.Close(db); err != nil {
		appLog.Error("Error closing database", err)
	} else {
		appLog.Info("Database connection closed.")
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// --- Initialization ---
	appLog, err := appLogger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	appLog.Info("Logger initialized.")

	// --- Infrastructure ---
	db, err := sqlite.Open(cfg.DBPath, appLog)
	if err != nil {
		appLog.Error(fmt.Sprintf("Failed to open database %s", cfg.DBPath), err)
		os.Exit(1)
	}
	reminderRepo := sqlite.NewReminderRepository(db)
	cronRepo := sqlite.NewCronReminderRepository(db)
	editRepo := sqlite.NewEditRepository(db)
	timezoneRepo := sqlite.NewTimezoneRepository(db)
	appLog.Info("Database and repositories initialized.")

	var notifier appService.Notifier
	if cfg.TelegramToken == "" {
		appLog.Warn("TELEGRAM_TOKEN not set, reminders will only be logged")
		notifier = appService.NewLogNotifier(appLog)
	} else {
		client, err := telegram.NewClient(telegram.Settings{Token: cfg.TelegramToken}, appLog)
		if err != nil {
			appLog.Error("Failed to create Telegram client", err)
			os.Exit(1)
		}
		notifier = client
	}
	cronScheduler := scheduler.NewScheduler(appLog)

	// --- Application Services ---
	timezoneSvc := appService.NewTimezoneService(timezoneRepo, appLog)
	reminderSvc := appService.NewReminderService(reminderRepo, cronRepo, editRepo, timezoneSvc, appService.SystemClock, appLog)
	dispatcher := appService.NewDispatchService(cronScheduler, reminderRepo, cronRepo, timezoneSvc, notifier,
		appService.SystemClock, appService.DispatchConfig{
			PollInterval:        cfg.PollInterval,
			MaxDeliveryAttempts: cfg.MaxDeliveryAttempts,
		}, appLog)
	appLog.Info("Application services initialized.")

	if err := dispatcher.Start(context.Background()); err != nil {
		appLog.Error("Failed to start dispatcher", err)
		os.Exit(1)
	}

	// --- Router ---
	echoRouter := router.NewRouter(&router.Config{
		ReminderHandler: handler.NewReminderHandler(reminderSvc, appLog),
		TimezoneHandler: handler.NewTimezoneHandler(timezoneSvc, appLog),
		Logger:          appLog,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(appLog, apiServer, dispatcher, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("HTTP server ListenAndServe error", err)
		os.Exit(1)
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
