package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/services"
)

type ExchangeRateController struct {
	rates  services.ExchangeRateService
	logger *logrus.Logger
}

func NewExchangeRateController(rates services.ExchangeRateService, logger *logrus.Logger) *ExchangeRateController {
	return &ExchangeRateController{
		rates:  rates,
		logger: logger,
	}
}

// Create handles POST /api/v1/rates
func (ctrl *ExchangeRateController) Create(c *gin.Context) {
	var req dto.NewExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	rate, err := ctrl.rates.SaveRate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// List handles GET /api/v1/rates
func (ctrl *ExchangeRateController) List(c *gin.Context) {
	rates, err := ctrl.rates.ListActiveRates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// Resolve handles GET /api/v1/rates/:from/:to
func (ctrl *ExchangeRateController) Resolve(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	rate, err := ctrl.rates.ResolveRate(c.Request.Context(), c.Param("from"), c.Param("to"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// History handles GET /api/v1/rates/history
func (ctrl *ExchangeRateController) History(c *gin.Context) {
	var req dto.RateHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	rates, err := ctrl.rates.GetHistory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// Deactivate handles DELETE /api/v1/rates/:from/:to
func (ctrl *ExchangeRateController) Deactivate(c *gin.Context) {
	if err := ctrl.rates.DeactivateRate(c.Request.Context(), c.Param("from"), c.Param("to")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
