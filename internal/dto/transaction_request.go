package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/claudemirLima/changeApp/internal/models"
)

type NewTransactionRequest struct {
	FromCurrencyCode string          `json:"from_currency_code" binding:"required"`
	ToCurrencyCode   string          `json:"to_currency_code" binding:"required"`
	QuantityProduct  int64           `json:"quantity_product,omitempty"`
	QuantityCurrency decimal.Decimal `json:"quantity_currency,omitempty"`
	ProductID        *int64          `json:"product_id,omitempty"`
	KingdomID        *int64          `json:"kingdom_id,omitempty"`
	Type             string          `json:"type,omitempty"`
}

type TransactionResponse struct {
	TransactionID    string                   `json:"transaction_id"`
	Type             models.TransactionType   `json:"type"`
	Status           models.TransactionStatus `json:"status"`
	Reason           string                   `json:"reason,omitempty"`
	OriginalAmount   decimal.Decimal          `json:"original_amount"`
	ConvertedAmount  decimal.Decimal          `json:"converted_amount"`
	FromCurrencyCode string                   `json:"from_currency_code"`
	ToCurrencyCode   string                   `json:"to_currency_code"`
	ExchangeRate     decimal.Decimal          `json:"exchange_rate"`
	RiskScore        decimal.Decimal          `json:"risk_score"`
	ProductID        *int64                   `json:"product_id,omitempty"`
	KingdomID        *int64                   `json:"kingdom_id,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
}

type TransactionListRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
}

// FromTransaction maps the entity to its API shape.
func FromTransaction(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		Type:             t.Type,
		Status:           t.Status,
		Reason:           t.Reason,
		OriginalAmount:   t.OriginalAmount,
		ConvertedAmount:  t.ConvertedAmount,
		FromCurrencyCode: t.FromCurrencyCode,
		ToCurrencyCode:   t.ToCurrencyCode,
		ExchangeRate:     t.ExchangeRate,
		RiskScore:        t.RiskScore,
		ProductID:        t.ProductID,
		KingdomID:        t.KingdomID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		CompletedAt:      t.CompletedAt,
	}
}
