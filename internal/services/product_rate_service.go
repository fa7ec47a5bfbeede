package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/repositories"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// ProductRateService resolves and versions product-specific rate overrides.
// The lookup semantics mirror the base rates, additionally scoped by product.
type ProductRateService interface {
	ResolveRate(ctx context.Context, productID int64, from, to string, date time.Time) (*models.ProductExchangeRate, error)
	SaveRate(ctx context.Context, req *dto.NewProductExchangeRateRequest) (*models.ProductExchangeRate, error)
	DeactivateRate(ctx context.Context, productID int64, from, to string) error
}

type productRateService struct {
	rates      repositories.ProductRateRepository
	currencies repositories.CurrencyRepository
	logger     *logrus.Logger
}

func NewProductRateService(rates repositories.ProductRateRepository, currencies repositories.CurrencyRepository, logger *logrus.Logger) ProductRateService {
	return &productRateService{
		rates:      rates,
		currencies: currencies,
		logger:     logger,
	}
}

func (s *productRateService) ResolveRate(ctx context.Context, productID int64, from, to string, date time.Time) (*models.ProductExchangeRate, error) {
	rate, err := s.rates.FindActiveByDate(ctx, productID, from, to, date)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrProductRateNotFound) {
		return nil, err
	}

	rate, err = s.rates.FindLatestActive(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("No product rate effective on %s for product %d %s->%s, using latest active",
		date.Format("2006-01-02"), productID, from, to)
	return rate, nil
}

func (s *productRateService) SaveRate(ctx context.Context, req *dto.NewProductExchangeRateRequest) (*models.ProductExchangeRate, error) {
	from := strings.ToUpper(strings.TrimSpace(req.FromCurrencyCode))
	to := strings.ToUpper(strings.TrimSpace(req.ToCurrencyCode))

	if req.ProductID <= 0 {
		return nil, apperrors.NewValidationError("product_id must be positive")
	}
	if from == to {
		return nil, apperrors.NewValidationError("Source and target currency must differ")
	}
	if _, err := s.currencies.GetActiveByCode(ctx, from); err != nil {
		return nil, err
	}
	if _, err := s.currencies.GetActiveByCode(ctx, to); err != nil {
		return nil, err
	}
	if err := validateRateValue(req.BaseRate); err != nil {
		return nil, err
	}
	if err := validateRateValue(req.ProductMultiplier); err != nil {
		return nil, err
	}

	effectiveDate := time.Now()
	if req.EffectiveDate != nil {
		effectiveDate = *req.EffectiveDate
	}
	effectiveDate = truncateToDay(effectiveDate)

	exists, err := s.rates.ExistsActiveOnDate(ctx, req.ProductID, from, to, effectiveDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrProductRateAlreadyExists
	}

	rate := &models.ProductExchangeRate{
		ProductID:         req.ProductID,
		FromCurrencyCode:  from,
		ToCurrencyCode:    to,
		BaseRate:          req.BaseRate,
		ProductMultiplier: req.ProductMultiplier,
		EffectiveDate:     effectiveDate,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}

	if err := s.rates.Insert(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Infof("✅ Product rate saved: product=%d %s->%s rate=%s multiplier=%s",
		rate.ProductID, from, to, rate.BaseRate, rate.ProductMultiplier)
	return rate, nil
}

func (s *productRateService) DeactivateRate(ctx context.Context, productID int64, from, to string) error {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	rate, err := s.rates.FindLatestActive(ctx, productID, from, to)
	if err != nil {
		return err
	}

	if err := s.rates.Insert(ctx, rate.InactiveCopy()); err != nil {
		return err
	}
	if err := s.rates.DeleteByID(ctx, rate.ID); err != nil {
		return err
	}

	s.logger.Infof("Product rate deactivated: product=%d %s->%s", productID, from, to)
	return nil
}
