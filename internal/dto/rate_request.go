package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type NewCurrencyRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

type NewExchangeRateRequest struct {
	FromCurrencyCode string          `json:"from_currency_code" binding:"required"`
	ToCurrencyCode   string          `json:"to_currency_code" binding:"required"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	EffectiveDate    *time.Time      `json:"effective_date,omitempty"`
}

type NewProductExchangeRateRequest struct {
	ProductID         int64           `json:"product_id" binding:"required"`
	FromCurrencyCode  string          `json:"from_currency_code" binding:"required"`
	ToCurrencyCode    string          `json:"to_currency_code" binding:"required"`
	BaseRate          decimal.Decimal `json:"base_rate" binding:"required"`
	ProductMultiplier decimal.Decimal `json:"product_multiplier" binding:"required"`
	EffectiveDate     *time.Time      `json:"effective_date,omitempty"`
}

type RateHistoryRequest struct {
	FromCurrencyCode string     `form:"from" binding:"required"`
	ToCurrencyCode   string     `form:"to" binding:"required"`
	StartDate        *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate          *time.Time `form:"end_date" time_format:"2006-01-02"`
}
