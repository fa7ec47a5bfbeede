package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/services"
)

type CurrencyController struct {
	currencies services.CurrencyService
	logger     *logrus.Logger
}

func NewCurrencyController(currencies services.CurrencyService, logger *logrus.Logger) *CurrencyController {
	return &CurrencyController{
		currencies: currencies,
		logger:     logger,
	}
}

// Create handles POST /api/v1/currencies
func (ctrl *CurrencyController) Create(c *gin.Context) {
	var req dto.NewCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	currency, err := ctrl.currencies.CreateCurrency(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, currency)
}

// Get handles GET /api/v1/currencies/:code
func (ctrl *CurrencyController) Get(c *gin.Context) {
	currency, err := ctrl.currencies.GetCurrency(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, currency)
}

// List handles GET /api/v1/currencies
func (ctrl *CurrencyController) List(c *gin.Context) {
	currencies, err := ctrl.currencies.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// Deactivate handles DELETE /api/v1/currencies/:code
func (ctrl *CurrencyController) Deactivate(c *gin.Context) {
	if err := ctrl.currencies.DeactivateCurrency(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
