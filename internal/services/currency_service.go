package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/repositories"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// CurrencyService manages the currency catalog. Deactivation is
// append-only: the deactivated version is inserted as history and the
// active record removed.
type CurrencyService interface {
	CreateCurrency(ctx context.Context, req *dto.NewCurrencyRequest) (*models.Currency, error)
	GetCurrency(ctx context.Context, code string) (*models.Currency, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
	DeactivateCurrency(ctx context.Context, code string) error
}

type currencyService struct {
	repo   repositories.CurrencyRepository
	logger *logrus.Logger
}

func NewCurrencyService(repo repositories.CurrencyRepository, logger *logrus.Logger) CurrencyService {
	return &currencyService{
		repo:   repo,
		logger: logger,
	}
}

func (s *currencyService) CreateCurrency(ctx context.Context, req *dto.NewCurrencyRequest) (*models.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperrors.NewValidationError("Currency code is required")
	}

	now := time.Now()
	currency := &models.Currency{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, currency); err != nil {
		return nil, err
	}

	s.logger.Infof("✅ Currency created: %s (%s)", currency.Code, currency.Name)
	return currency, nil
}

func (s *currencyService) GetCurrency(ctx context.Context, code string) (*models.Currency, error) {
	return s.repo.GetActiveByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	return s.repo.ListActive(ctx)
}

// DeactivateCurrency versions the currency out: a deactivated copy is
// inserted for history and the active record deleted.
func (s *currencyService) DeactivateCurrency(ctx context.Context, code string) error {
	currency, err := s.repo.GetActiveByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}

	activeID := currency.ID
	currency.Deactivate()
	currency.ID = primitive.NilObjectID

	if err := s.repo.Insert(ctx, currency); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, activeID); err != nil {
		return err
	}

	s.logger.Infof("Currency deactivated: %s", currency.Code)
	return nil
}
