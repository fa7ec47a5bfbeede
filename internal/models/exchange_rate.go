package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExchangeRate is the base rate for a currency pair, versioned append-only:
// deactivation inserts an inactive copy instead of mutating the record.
type ExchangeRate struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromCurrencyCode string             `bson:"from_currency_code" json:"from_currency_code"`
	ToCurrencyCode   string             `bson:"to_currency_code" json:"to_currency_code"`
	Rate             decimal.Decimal    `bson:"rate" json:"rate"`
	EffectiveDate    time.Time          `bson:"effective_date" json:"effective_date"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	DeactivatedAt    *time.Time         `bson:"deactivated_at,omitempty" json:"deactivated_at,omitempty"`
}

// InactiveCopy returns the append-only historical version of the rate.
func (e *ExchangeRate) InactiveCopy() *ExchangeRate {
	now := time.Now()
	return &ExchangeRate{
		FromCurrencyCode: e.FromCurrencyCode,
		ToCurrencyCode:   e.ToCurrencyCode,
		Rate:             e.Rate,
		EffectiveDate:    e.EffectiveDate,
		IsActive:         false,
		CreatedAt:        e.CreatedAt,
		DeactivatedAt:    &now,
	}
}

// ProductExchangeRate overrides the base rate for a specific product,
// carrying its own multiplier. Same append-only versioning as ExchangeRate.
type ProductExchangeRate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID         int64              `bson:"product_id" json:"product_id"`
	FromCurrencyCode  string             `bson:"from_currency_code" json:"from_currency_code"`
	ToCurrencyCode    string             `bson:"to_currency_code" json:"to_currency_code"`
	BaseRate          decimal.Decimal    `bson:"base_rate" json:"base_rate"`
	ProductMultiplier decimal.Decimal    `bson:"product_multiplier" json:"product_multiplier"`
	EffectiveDate     time.Time          `bson:"effective_date" json:"effective_date"`
	IsActive          bool               `bson:"is_active" json:"is_active"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	DeactivatedAt     *time.Time         `bson:"deactivated_at,omitempty" json:"deactivated_at,omitempty"`
}

func (p *ProductExchangeRate) InactiveCopy() *ProductExchangeRate {
	now := time.Now()
	return &ProductExchangeRate{
		ProductID:         p.ProductID,
		FromCurrencyCode:  p.FromCurrencyCode,
		ToCurrencyCode:    p.ToCurrencyCode,
		BaseRate:          p.BaseRate,
		ProductMultiplier: p.ProductMultiplier,
		EffectiveDate:     p.EffectiveDate,
		IsActive:          false,
		CreatedAt:         p.CreatedAt,
		DeactivatedAt:     &now,
	}
}
