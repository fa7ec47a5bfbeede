package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/clients"
	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// productStrategy converts a product quantity. A product-specific rate
// override is preferred; when none exists the base rate of the pair applies
// with a neutral multiplier.
type productStrategy struct {
	productRates ProductRateService
	baseRates    ExchangeRateService
	products     clients.ProductClient
	calculator   *ConversionCalculator
	logger       *logrus.Logger
}

func NewProductStrategy(productRates ProductRateService, baseRates ExchangeRateService, products clients.ProductClient, logger *logrus.Logger) ConversionStrategy {
	return &productStrategy{
		productRates: productRates,
		baseRates:    baseRates,
		products:     products,
		calculator:   NewConversionCalculator(),
		logger:       logger,
	}
}

func (s *productStrategy) Name() string {
	return "product"
}

func (s *productStrategy) CanHandle(req *dto.ConversionRequest) bool {
	return req.HasProduct() && req.QuantityProduct > 0
}

func (s *productStrategy) Convert(ctx context.Context, req *dto.ConversionRequest) (*ConversionResult, error) {
	product, err := s.products.GetProductInfo(ctx, *req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.ErrProductNotFound
	}

	kingdom, err := s.resolveKingdom(ctx, req, product)
	if err != nil {
		return nil, err
	}

	rate, multiplier, err := s.resolveRate(ctx, req)
	if err != nil {
		return nil, err
	}

	amount := s.calculator.CalculateProduct(req.QuantityProduct, rate, multiplier, product, kingdom)

	s.logger.Debugf("Product conversion: %dx product %d -> %s %s (rate %s, multiplier %s)",
		req.QuantityProduct, product.ID, amount, req.ToCurrencyCode, rate, multiplier)

	return &ConversionResult{
		ConvertedAmount: amount,
		AppliedRate:     rate,
		Multiplier:      multiplier,
	}, nil
}

// resolveRate prefers the product override; without one the pair's base
// rate applies with multiplier 1.
func (s *productStrategy) resolveRate(ctx context.Context, req *dto.ConversionRequest) (decimal.Decimal, decimal.Decimal, error) {
	productRate, err := s.productRates.ResolveRate(ctx, *req.ProductID, req.FromCurrencyCode, req.ToCurrencyCode, req.Date())
	if err == nil {
		return productRate.BaseRate, productRate.ProductMultiplier, nil
	}
	if !errors.Is(err, apperrors.ErrProductRateNotFound) {
		return decimal.Zero, decimal.Zero, err
	}

	baseRate, err := s.baseRates.ResolveRate(ctx, req.FromCurrencyCode, req.ToCurrencyCode, req.Date())
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return baseRate.Rate, one, nil
}

// resolveKingdom prefers the kingdom named on the request, falling back to
// the product's own kingdom.
func (s *productStrategy) resolveKingdom(ctx context.Context, req *dto.ConversionRequest, product *models.ProductInfo) (*models.KingdomInfo, error) {
	kingdomID := product.KingdomID
	if req.KingdomID != nil {
		kingdomID = *req.KingdomID
	}
	if kingdomID <= 0 {
		return nil, nil
	}

	kingdom, err := s.products.GetKingdomInfo(ctx, kingdomID)
	if err != nil {
		return nil, err
	}
	if !kingdom.IsActive {
		return nil, apperrors.ErrKingdomNotFound
	}
	return kingdom, nil
}
