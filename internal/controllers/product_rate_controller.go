package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/services"
)

type ProductRateController struct {
	rates  services.ProductRateService
	logger *logrus.Logger
}

func NewProductRateController(rates services.ProductRateService, logger *logrus.Logger) *ProductRateController {
	return &ProductRateController{
		rates:  rates,
		logger: logger,
	}
}

// Create handles POST /api/v1/product-rates
func (ctrl *ProductRateController) Create(c *gin.Context) {
	var req dto.NewProductExchangeRateRequest
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

// Deactivate handles DELETE /api/v1/product-rates/:product_id/:from/:to
func (ctrl *ProductRateController) Deactivate(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id must be a positive integer"})
		return
	}

	if err := ctrl.rates.DeactivateRate(c.Request.Context(), productID, c.Param("from"), c.Param("to")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
