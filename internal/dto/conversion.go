package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/claudemirLima/changeApp/internal/models"
)

// ConversionRequest is the immutable input of one conversion. Quantity is
// either a product count (product conversions) or a currency amount
// (standard conversions).
type ConversionRequest struct {
	TransactionID    string          `json:"transaction_id,omitempty"`
	FromCurrencyCode string          `json:"from_currency_code" binding:"required"`
	ToCurrencyCode   string          `json:"to_currency_code" binding:"required"`
	QuantityProduct  int64           `json:"quantity_product,omitempty"`
	QuantityCurrency decimal.Decimal `json:"quantity_currency,omitempty"`
	ProductID        *int64          `json:"product_id,omitempty"`
	KingdomID        *int64          `json:"kingdom_id,omitempty"`
	ConversionDate   *time.Time      `json:"conversion_date,omitempty"`
}

// HasProduct reports whether the request targets a product conversion.
func (r *ConversionRequest) HasProduct() bool {
	return r.ProductID != nil && *r.ProductID > 0
}

// Date returns the requested conversion date, defaulting to now.
func (r *ConversionRequest) Date() time.Time {
	if r.ConversionDate != nil {
		return *r.ConversionDate
	}
	return time.Now()
}

// ConversionResponse is the decision produced exactly once per request.
type ConversionResponse struct {
	ConvertedAmount  decimal.Decimal          `json:"converted_amount"`
	Rate             decimal.Decimal          `json:"rate"`
	FromCurrencyCode string                   `json:"from_currency_code"`
	ToCurrencyCode   string                   `json:"to_currency_code"`
	Status           models.TransactionStatus `json:"status"`
	Reason           string                   `json:"reason"`
	RiskScore        decimal.Decimal          `json:"risk_score"`
	Warnings         []string                 `json:"warnings"`
	Recommendations  []string                 `json:"recommendations"`
	CanProceed       bool                     `json:"can_proceed"`
	RequiresApproval bool                     `json:"requires_approval"`
	TransactionID    string                   `json:"transaction_id,omitempty"`
	ExpiresAt        *time.Time               `json:"expires_at,omitempty"`
	ConfirmationURL  string                   `json:"confirmation_url,omitempty"`
}

// NewRejectedResponse builds a terminal NOT_APPROVED decision with full
// context. Used for business rejections that are not transport errors.
func NewRejectedResponse(reason string) *ConversionResponse {
	return &ConversionResponse{
		Status:          models.TransactionStatusNotApproved,
		Reason:          reason,
		CanProceed:      false,
		Warnings:        []string{reason},
		Recommendations: []string{"Check the conversion parameters"},
	}
}
