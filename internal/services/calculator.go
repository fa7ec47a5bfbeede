package services

import (
	"github.com/shopspring/decimal"

	"github.com/claudemirLima/changeApp/internal/models"
)

var (
	one        = decimal.NewFromInt(1)
	ownerBonus = decimal.RequireFromString("1.1")
)

// ConversionCalculator holds the arithmetic shared by the conversion
// strategies. All amounts are computed at full precision and rounded
// half-up to two decimal places only at the end.
type ConversionCalculator struct{}

func NewConversionCalculator() *ConversionCalculator {
	return &ConversionCalculator{}
}

// CalculateStandard converts a currency amount:
// amount × rate × kingdomQuality × ownerBonus.
func (c *ConversionCalculator) CalculateStandard(quantityCurrency, rate decimal.Decimal, kingdom *models.KingdomInfo) decimal.Decimal {
	result := quantityCurrency.Mul(rate)
	result = result.Mul(kingdomQuality(kingdom))
	result = result.Mul(kingdomOwnerBonus(kingdom))
	return roundAmount(result)
}

// CalculateProduct converts a product quantity:
// quantity × rate × multiplier × demand × quality × kingdomQuality × ownerBonus.
func (c *ConversionCalculator) CalculateProduct(quantityProduct int64, rate, multiplier decimal.Decimal, product *models.ProductInfo, kingdom *models.KingdomInfo) decimal.Decimal {
	result := decimal.NewFromInt(quantityProduct).Mul(rate)
	result = result.Mul(multiplier)
	result = result.Mul(product.DemandQuantifier)
	result = result.Mul(product.QualityQualifier)
	result = result.Mul(kingdomQuality(kingdom))
	result = result.Mul(kingdomOwnerBonus(kingdom))
	return roundAmount(result)
}

// kingdomQuality is neutral when the request carries no kingdom.
func kingdomQuality(kingdom *models.KingdomInfo) decimal.Decimal {
	if kingdom == nil || kingdom.QualityRate.IsZero() {
		return one
	}
	return kingdom.QualityRate
}

func kingdomOwnerBonus(kingdom *models.KingdomInfo) decimal.Decimal {
	if kingdom != nil && kingdom.IsOwner {
		return ownerBonus
	}
	return one
}

// roundAmount rounds half-up to two decimal places, the settlement
// precision of every converted amount.
func roundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
