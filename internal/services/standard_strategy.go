package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/clients"
	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// standardStrategy converts a plain currency amount using the base rate of
// the pair. Handles every request that carries no product.
type standardStrategy struct {
	rates      ExchangeRateService
	products   clients.ProductClient
	calculator *ConversionCalculator
	logger     *logrus.Logger
}

func NewStandardStrategy(rates ExchangeRateService, products clients.ProductClient, logger *logrus.Logger) ConversionStrategy {
	return &standardStrategy{
		rates:      rates,
		products:   products,
		calculator: NewConversionCalculator(),
		logger:     logger,
	}
}

func (s *standardStrategy) Name() string {
	return "standard"
}

func (s *standardStrategy) CanHandle(req *dto.ConversionRequest) bool {
	return !req.HasProduct() && req.QuantityCurrency.IsPositive()
}

func (s *standardStrategy) Convert(ctx context.Context, req *dto.ConversionRequest) (*ConversionResult, error) {
	rate, err := s.rates.ResolveRate(ctx, req.FromCurrencyCode, req.ToCurrencyCode, req.Date())
	if err != nil {
		return nil, err
	}

	kingdom, err := s.resolveKingdom(ctx, req)
	if err != nil {
		return nil, err
	}

	amount := s.calculator.CalculateStandard(req.QuantityCurrency, rate.Rate, kingdom)

	s.logger.Debugf("Standard conversion: %s %s -> %s %s (rate %s)",
		req.QuantityCurrency, req.FromCurrencyCode, amount, req.ToCurrencyCode, rate.Rate)

	return &ConversionResult{
		ConvertedAmount: amount,
		AppliedRate:     rate.Rate,
		Multiplier:      one,
	}, nil
}

func (s *standardStrategy) resolveKingdom(ctx context.Context, req *dto.ConversionRequest) (*models.KingdomInfo, error) {
	if req.KingdomID == nil {
		return nil, nil
	}
	kingdom, err := s.products.GetKingdomInfo(ctx, *req.KingdomID)
	if err != nil {
		return nil, err
	}
	if !kingdom.IsActive {
		return nil, apperrors.ErrKingdomNotFound
	}
	return kingdom, nil
}
