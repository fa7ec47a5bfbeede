package models

import "github.com/shopspring/decimal"

// ProductInfo are the product attributes served by the manager-product API.
type ProductInfo struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	BaseValue        decimal.Decimal `json:"base_value"`
	DemandQuantifier decimal.Decimal `json:"demand_quantifier"`
	QualityQualifier decimal.Decimal `json:"quality_qualifier"`
	KingdomID        int64           `json:"kingdom_id"`
	IsActive         bool            `json:"is_active"`
}

// KingdomInfo are the kingdom attributes served by the manager-product API.
// Owner kingdoms receive a conversion bonus.
type KingdomInfo struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	QualityRate decimal.Decimal `json:"quality_rate"`
	IsOwner     bool            `json:"is_owner"`
	IsActive    bool            `json:"is_active"`
}
