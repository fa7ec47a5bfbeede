package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/claudemirLima/changeApp/internal/config"
	"github.com/claudemirLima/changeApp/internal/controllers"
	"github.com/claudemirLima/changeApp/internal/messaging"
	"github.com/claudemirLima/changeApp/internal/monitoring"
	"github.com/claudemirLima/changeApp/internal/repositories"
	"github.com/claudemirLima/changeApp/internal/services"
	"github.com/claudemirLima/changeApp/pkg/database"
	"github.com/claudemirLima/changeApp/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New(cfg.Logging)

	log.Info("🚀 Starting transaction-api...")

	db, err := database.NewConnection(database.Config{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	metrics := monitoring.NewMetrics("transaction-api")

	commandPublisher, err := messaging.NewCommandPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.Fatalf("Failed to create command publisher: %v", err)
	}

	transactionRepo := repositories.NewTransactionRepository(db)
	transactionService := services.NewTransactionService(transactionRepo, commandPublisher, metrics, log)

	eventConsumer, err := messaging.NewEventConsumer(cfg.RabbitMQ, transactionService, log)
	if err != nil {
		log.Fatalf("Failed to create event consumer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := eventConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("Event consumer stopped: %v", err)
			stop()
		}
	}()

	// Transactions that never got a result event are rejected by a
	// periodic sweep.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("*/10 * * * *", func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := transactionService.ExpireStale(sweepCtx); err != nil {
			log.Errorf("Stale transaction sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule stale sweep: %v", err)
	}
	scheduler.Start()

	router := controllers.NewTransactionRouter(controllers.TransactionRouterDeps{
		Transactions: controllers.NewTransactionController(transactionService, log),
		Health: controllers.NewHealthController("transaction-api", map[string]controllers.HealthCheck{
			"mongodb": db.Ping,
		}),
		Metrics: metrics,
		Logger:  log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Infof("✅ transaction-api listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down transaction-api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	<-scheduler.Stop().Done()
	if err := eventConsumer.Close(); err != nil {
		log.Errorf("Consumer close error: %v", err)
	}
	if err := commandPublisher.Close(); err != nil {
		log.Errorf("Publisher close error: %v", err)
	}
	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelClose()
	if err := db.Close(closeCtx); err != nil {
		log.Errorf("MongoDB close error: %v", err)
	}

	log.Info("Shutdown complete")
}
