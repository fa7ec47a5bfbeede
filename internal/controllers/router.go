package controllers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/middleware"
	"github.com/claudemirLima/changeApp/internal/monitoring"
)

// ExchangeRouterDeps are the handlers wired into the exchange service API.
type ExchangeRouterDeps struct {
	Conversions  *ConversionController
	Currencies   *CurrencyController
	Rates        *ExchangeRateController
	ProductRates *ProductRateController
	Health       *HealthController
	Metrics      monitoring.Metrics
	Logger       *logrus.Logger
}

// NewExchangeRouter builds the HTTP surface of the exchange service.
func NewExchangeRouter(deps ExchangeRouterDeps) *gin.Engine {
	router := newBaseRouter(deps.Logger, deps.Metrics)

	router.GET("/health", deps.Health.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		conversions := v1.Group("/conversions")
		{
			conversions.POST("/convert", deps.Conversions.Convert)
			conversions.POST("/convert/product", deps.Conversions.ConvertProduct)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("/:id/confirm", deps.Conversions.ConfirmPending)
			transactions.GET("/:id/pending", deps.Conversions.GetPending)
		}

		currencies := v1.Group("/currencies")
		{
			currencies.POST("", deps.Currencies.Create)
			currencies.GET("", deps.Currencies.List)
			currencies.GET("/:code", deps.Currencies.Get)
			currencies.DELETE("/:code", deps.Currencies.Deactivate)
		}

		rates := v1.Group("/rates")
		{
			rates.POST("", deps.Rates.Create)
			rates.GET("", deps.Rates.List)
			rates.GET("/history", deps.Rates.History)
			rates.GET("/:from/:to", deps.Rates.Resolve)
			rates.DELETE("/:from/:to", deps.Rates.Deactivate)
		}

		productRates := v1.Group("/product-rates")
		{
			productRates.POST("", deps.ProductRates.Create)
			productRates.DELETE("/:product_id/:from/:to", deps.ProductRates.Deactivate)
		}
	}

	return router
}

// TransactionRouterDeps are the handlers wired into the transaction
// service API.
type TransactionRouterDeps struct {
	Transactions *TransactionController
	Health       *HealthController
	Metrics      monitoring.Metrics
	Logger       *logrus.Logger
}

// NewTransactionRouter builds the HTTP surface of the transaction service.
func NewTransactionRouter(deps TransactionRouterDeps) *gin.Engine {
	router := newBaseRouter(deps.Logger, deps.Metrics)

	router.GET("/health", deps.Health.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", deps.Transactions.Create)
			transactions.GET("", deps.Transactions.List)
			transactions.GET("/:id", deps.Transactions.Get)
			transactions.DELETE("/:id", deps.Transactions.Delete)
			transactions.POST("/:id/approve", deps.Transactions.Approve)
			transactions.POST("/:id/reject", deps.Transactions.Reject)
		}
	}

	return router
}

func newBaseRouter(logger *logrus.Logger, metrics monitoring.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger, metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
	}))
	return router
}
