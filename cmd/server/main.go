package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/api/routes"
	"hireflow/internal/auth"
	"hireflow/internal/background"
	"hireflow/internal/config"
	"hireflow/internal/extractor"
	"hireflow/internal/logging"
	"hireflow/internal/notify"
	"hireflow/internal/recruitment"
	"hireflow/internal/storage"
	"hireflow/internal/store"
	"hireflow/internal/vectorstore"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Hireflow Recruitment API")

	ctx := context.Background()

	// Document store
	storeClient, err := store.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize document store", map[string]interface{}{"error": err.Error()})
	}
	defer storeClient.Close()

	vacancies := storeClient.Vacancies()
	applications := storeClient.Applications()
	candidates := storeClient.Candidates()

	// Identity provider
	users, err := auth.NewService(ctx, storeClient.App())
	if err != nil {
		logger.Fatal("Failed to initialize auth service", map[string]interface{}{"error": err.Error()})
	}

	// Object storage
	bucket, err := storage.NewBucketClient(ctx, storeClient.App(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", map[string]interface{}{"error": err.Error()})
	}

	// Notifications: queued email delivery plus optional push messaging
	queue := notify.NewEmailQueue(cfg)
	mailer := notify.NewSMTPMailer(cfg)
	emailWorker := notify.NewWorker(queue, mailer, cfg.Email.MaxAttempts)
	emailWorker.Start(ctx)
	defer emailWorker.Stop()

	var pusher notify.Pusher
	if messagingClient, err := storeClient.App().Messaging(ctx); err != nil {
		logger.Warn("Push messaging unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		pusher = messagingClient
	}
	notifier := notify.NewService(queue, pusher)

	// Vector index with rate limited embeddings
	embedder, err := vectorstore.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize embeddings provider", map[string]interface{}{"error": err.Error()})
	}
	provider, err := vectorstore.NewPineconeProvider(cfg, embedder)
	if err != nil {
		logger.Fatal("Failed to initialize vector index", map[string]interface{}{"error": err.Error()})
	}

	// Preselection pipeline
	recruitmentService := recruitment.NewService(cfg, recruitment.Deps{
		Vacancies:    vacancies,
		Applications: applications,
		Candidates:   candidates,
		Provider:     provider,
		Extractor:    extractor.NewPDFExtractor(cfg.Recruitment.ExtractTimeout),
		Notifier:     notifier,
	})

	// Background task manager
	logger.Info("Initializing background task manager")
	taskManager := background.NewManager(cfg)
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, routes.Deps{
		Vacancies:    vacancies,
		Applications: applications,
		Users:        users,
		Bucket:       bucket,
		Notifier:     notifier,
		Recruitment:  recruitmentService,
		TaskManager:  taskManager,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop task manager first so running preselections can finish
		logger.Info("Stopping background task manager...")
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping email worker...")
		emailWorker.Stop()

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
