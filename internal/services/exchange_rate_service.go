package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/repositories"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// maxRate bounds sane rate values on save. Resolution never re-validates:
// whatever was accepted stays applicable.
var maxRate = decimal.NewFromInt(1_000_000)

// ExchangeRateService resolves and versions base rates for currency pairs.
type ExchangeRateService interface {
	// ResolveRate returns the rate applicable on the given date: the active
	// rate with the latest effective date not after it, falling back to the
	// latest active rate for the pair.
	ResolveRate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error)
	SaveRate(ctx context.Context, req *dto.NewExchangeRateRequest) (*models.ExchangeRate, error)
	DeactivateRate(ctx context.Context, from, to string) error
	GetHistory(ctx context.Context, req *dto.RateHistoryRequest) ([]models.ExchangeRate, error)
	ListActiveRates(ctx context.Context) ([]models.ExchangeRate, error)
}

type exchangeRateService struct {
	rates      repositories.ExchangeRateRepository
	currencies repositories.CurrencyRepository
	logger     *logrus.Logger
}

func NewExchangeRateService(rates repositories.ExchangeRateRepository, currencies repositories.CurrencyRepository, logger *logrus.Logger) ExchangeRateService {
	return &exchangeRateService{
		rates:      rates,
		currencies: currencies,
		logger:     logger,
	}
}

func (s *exchangeRateService) ResolveRate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error) {
	rate, err := s.rates.FindActiveByDate(ctx, from, to, date)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrExchangeRateNotFound) {
		return nil, err
	}

	// No rate effective on the date yet: fall back to the most recent
	// active rate for the pair.
	rate, err = s.rates.FindLatestActive(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("No rate effective on %s for %s->%s, using latest active (effective %s)",
		date.Format("2006-01-02"), from, to, rate.EffectiveDate.Format("2006-01-02"))
	return rate, nil
}

func (s *exchangeRateService) SaveRate(ctx context.Context, req *dto.NewExchangeRateRequest) (*models.ExchangeRate, error) {
	from := strings.ToUpper(strings.TrimSpace(req.FromCurrencyCode))
	to := strings.ToUpper(strings.TrimSpace(req.ToCurrencyCode))

	if err := s.validatePair(ctx, from, to); err != nil {
		return nil, err
	}
	if err := validateRateValue(req.Rate); err != nil {
		return nil, err
	}

	effectiveDate := time.Now()
	if req.EffectiveDate != nil {
		effectiveDate = *req.EffectiveDate
	}
	effectiveDate = truncateToDay(effectiveDate)

	exists, err := s.rates.ExistsActiveOnDate(ctx, from, to, effectiveDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrRateAlreadyExists
	}

	rate := &models.ExchangeRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		EffectiveDate:    effectiveDate,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}

	if err := s.rates.Insert(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Infof("✅ Exchange rate saved: %s->%s = %s (effective %s)",
		from, to, rate.Rate, effectiveDate.Format("2006-01-02"))
	return rate, nil
}

// DeactivateRate versions the current active rate out: an inactive copy is
// inserted for history, then the active record is removed.
func (s *exchangeRateService) DeactivateRate(ctx context.Context, from, to string) error {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	rate, err := s.rates.FindLatestActive(ctx, from, to)
	if err != nil {
		return err
	}

	if err := s.rates.Insert(ctx, rate.InactiveCopy()); err != nil {
		return err
	}
	if err := s.rates.DeleteByID(ctx, rate.ID); err != nil {
		return err
	}

	s.logger.Infof("Exchange rate deactivated: %s->%s (was %s)", from, to, rate.Rate)
	return nil
}

func (s *exchangeRateService) GetHistory(ctx context.Context, req *dto.RateHistoryRequest) ([]models.ExchangeRate, error) {
	from := strings.ToUpper(strings.TrimSpace(req.FromCurrencyCode))
	to := strings.ToUpper(strings.TrimSpace(req.ToCurrencyCode))

	end := time.Now()
	if req.EndDate != nil {
		end = *req.EndDate
	}
	start := end.AddDate(0, -1, 0)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if start.After(end) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date")
	}

	return s.rates.FindHistory(ctx, from, to, start, end)
}

func (s *exchangeRateService) ListActiveRates(ctx context.Context) ([]models.ExchangeRate, error) {
	return s.rates.ListActive(ctx)
}

func (s *exchangeRateService) validatePair(ctx context.Context, from, to string) error {
	if from == to {
		return apperrors.NewValidationError("Source and target currency must differ")
	}
	if _, err := s.currencies.GetActiveByCode(ctx, from); err != nil {
		return err
	}
	if _, err := s.currencies.GetActiveByCode(ctx, to); err != nil {
		return err
	}
	return nil
}

func validateRateValue(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("Rate must be positive")
	}
	if rate.GreaterThan(maxRate) {
		return apperrors.NewValidationError("Rate exceeds the allowed maximum")
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
