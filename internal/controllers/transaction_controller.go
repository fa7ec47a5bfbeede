package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/services"
)

// TransactionController exposes the initiator-side transaction endpoints.
type TransactionController struct {
	transactions services.TransactionService
	logger       *logrus.Logger
}

func NewTransactionController(transactions services.TransactionService, logger *logrus.Logger) *TransactionController {
	return &TransactionController{
		transactions: transactions,
		logger:       logger,
	}
}

// Create handles POST /api/v1/transactions
func (ctrl *TransactionController) Create(c *gin.Context) {
	var req dto.NewTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	transaction, err := ctrl.transactions.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	// The decision arrives asynchronously: the record is accepted, not done.
	c.JSON(http.StatusAccepted, transaction)
}

// Get handles GET /api/v1/transactions/:id
func (ctrl *TransactionController) Get(c *gin.Context) {
	transaction, err := ctrl.transactions.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// List handles GET /api/v1/transactions
func (ctrl *TransactionController) List(c *gin.Context) {
	var req dto.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	response, err := ctrl.transactions.ListTransactions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/v1/transactions/:id
func (ctrl *TransactionController) Delete(c *gin.Context) {
	if err := ctrl.transactions.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve handles POST /api/v1/transactions/:id/approve
func (ctrl *TransactionController) Approve(c *gin.Context) {
	transaction, err := ctrl.transactions.ApproveTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// Reject handles POST /api/v1/transactions/:id/reject
func (ctrl *TransactionController) Reject(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	// Reason is optional, so a missing body is fine.
	_ = c.ShouldBindJSON(&body)

	transaction, err := ctrl.transactions.RejectTransaction(c.Request.Context(), c.Param("id"), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}
