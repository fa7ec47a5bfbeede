package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/services"
)

// ConversionController exposes the synchronous conversion endpoints of the
// exchange service, plus confirmation of staged outcomes.
type ConversionController struct {
	conversions services.ConversionService
	logger      *logrus.Logger
}

func NewConversionController(conversions services.ConversionService, logger *logrus.Logger) *ConversionController {
	return &ConversionController{
		conversions: conversions,
		logger:      logger,
	}
}

// Convert handles POST /api/v1/conversions/convert
func (ctrl *ConversionController) Convert(c *gin.Context) {
	var req dto.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctrl.respondDecision(c, &req)
}

// ConvertProduct handles POST /api/v1/conversions/convert/product
func (ctrl *ConversionController) ConvertProduct(c *gin.Context) {
	var req dto.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if !req.HasProduct() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	ctrl.respondDecision(c, &req)
}

// respondDecision runs the pipeline; a rejected decision is reported as
// unprocessable, not as a transport error.
func (ctrl *ConversionController) respondDecision(c *gin.Context, req *dto.ConversionRequest) {
	response, err := ctrl.conversions.Convert(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !response.CanProceed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, response)
}

// ConfirmPending handles POST /api/v1/transactions/:id/confirm
func (ctrl *ConversionController) ConfirmPending(c *gin.Context) {
	pending, err := ctrl.conversions.ConfirmPending(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// GetPending handles GET /api/v1/transactions/:id/pending
func (ctrl *ConversionController) GetPending(c *gin.Context) {
	pending, err := ctrl.conversions.GetPending(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}
