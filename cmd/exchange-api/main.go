package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claudemirLima/changeApp/internal/cache"
	"github.com/claudemirLima/changeApp/internal/clients"
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

	log.Info("🚀 Starting exchange-api...")

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

	pendingStore, err := cache.NewPendingStore(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	metrics := monitoring.NewMetrics("exchange-api")
	productClient := clients.NewProductClient(cfg.ProductAPI, log)

	currencyRepo := repositories.NewCurrencyRepository(db)
	rateRepo := repositories.NewExchangeRateRepository(db)
	productRateRepo := repositories.NewProductRateRepository(db)

	currencyService := services.NewCurrencyService(currencyRepo, log)
	rateService := services.NewExchangeRateService(rateRepo, currencyRepo, log)
	productRateService := services.NewProductRateService(productRateRepo, currencyRepo, log)

	// Product conversions are the more specific shape: they must win the
	// selection whenever a product is present.
	selector := services.NewStrategySelector(
		services.NewProductStrategy(productRateService, rateService, productClient, log),
		services.NewStandardStrategy(rateService, productClient, log),
	)
	riskAnalyzer := services.NewRiskAnalyzer(log)
	conversionService := services.NewConversionService(selector, riskAnalyzer, pendingStore, metrics, log)

	eventPublisher, err := messaging.NewEventPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}

	commandConsumer, err := messaging.NewCommandConsumer(cfg.RabbitMQ, conversionService, eventPublisher, log)
	if err != nil {
		log.Fatalf("Failed to create command consumer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := commandConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("Command consumer stopped: %v", err)
			stop()
		}
	}()

	router := controllers.NewExchangeRouter(controllers.ExchangeRouterDeps{
		Conversions:  controllers.NewConversionController(conversionService, log),
		Currencies:   controllers.NewCurrencyController(currencyService, log),
		Rates:        controllers.NewExchangeRateController(rateService, log),
		ProductRates: controllers.NewProductRateController(productRateService, log),
		Health: controllers.NewHealthController("exchange-api", map[string]controllers.HealthCheck{
			"mongodb": db.Ping,
			"redis":   pendingStore.Ping,
		}),
		Metrics: metrics,
		Logger:  log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Infof("✅ exchange-api listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down exchange-api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	if err := commandConsumer.Close(); err != nil {
		log.Errorf("Consumer close error: %v", err)
	}
	if err := eventPublisher.Close(); err != nil {
		log.Errorf("Publisher close error: %v", err)
	}
	if err := pendingStore.Close(); err != nil {
		log.Errorf("Redis close error: %v", err)
	}
	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelClose()
	if err := db.Close(closeCtx); err != nil {
		log.Errorf("MongoDB close error: %v", err)
	}

	log.Info("Shutdown complete")
}
