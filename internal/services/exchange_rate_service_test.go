package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// Mock implementations
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindActiveByDate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error) {
	args := m.Called(ctx, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestActive(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ExistsActiveOnDate(ctx context.Context, from, to string, date time.Time) (bool, error) {
	args := m.Called(ctx, from, to, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockExchangeRateRepository) Insert(ctx context.Context, rate *models.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindHistory(ctx context.Context, from, to string, start, end time.Time) ([]models.ExchangeRate, error) {
	args := m.Called(ctx, from, to, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListActive(ctx context.Context) ([]models.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) Create(ctx context.Context, currency *models.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) GetActiveByCode(ctx context.Context, code string) (*models.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListActive(ctx context.Context) ([]models.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Insert(ctx context.Context, currency *models.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func activeCurrency(code string) *models.Currency {
	return &models.Currency{
		ID:       primitive.NewObjectID(),
		Code:     code,
		IsActive: true,
	}
}

func TestExchangeRateService_ResolveRate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("returns the rate effective on the date", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		expected := &models.ExchangeRate{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			Rate:             decimal.RequireFromString("2.5"),
		}
		rates.On("FindActiveByDate", ctx, "ORO", "TIB", date).Return(expected, nil)

		rate, err := service.ResolveRate(ctx, "ORO", "TIB", date)

		assert.NoError(t, err)
		assert.Equal(t, expected, rate)
	})

	t.Run("falls back to the latest active rate", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		latest := &models.ExchangeRate{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			Rate:             decimal.RequireFromString("2.4"),
			EffectiveDate:    date.AddDate(0, 1, 0),
		}
		rates.On("FindActiveByDate", ctx, "ORO", "TIB", date).Return(nil, apperrors.ErrExchangeRateNotFound)
		rates.On("FindLatestActive", ctx, "ORO", "TIB").Return(latest, nil)

		rate, err := service.ResolveRate(ctx, "ORO", "TIB", date)

		assert.NoError(t, err)
		assert.Equal(t, latest, rate)
	})

	t.Run("no rate at all is not found", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		rates.On("FindActiveByDate", ctx, "ORO", "PRA", date).Return(nil, apperrors.ErrExchangeRateNotFound)
		rates.On("FindLatestActive", ctx, "ORO", "PRA").Return(nil, apperrors.ErrExchangeRateNotFound)

		_, err := service.ResolveRate(ctx, "ORO", "PRA", date)

		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})
}

func TestExchangeRateService_SaveRate(t *testing.T) {
	ctx := context.Background()

	validRequest := func() *dto.NewExchangeRateRequest {
		return &dto.NewExchangeRateRequest{
			FromCurrencyCode: "oro",
			ToCurrencyCode:   "tib",
			Rate:             decimal.RequireFromString("2.5"),
		}
	}

	t.Run("saves an active rate with normalized codes", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		currencies.On("GetActiveByCode", ctx, "ORO").Return(activeCurrency("ORO"), nil)
		currencies.On("GetActiveByCode", ctx, "TIB").Return(activeCurrency("TIB"), nil)
		rates.On("ExistsActiveOnDate", ctx, "ORO", "TIB", mock.AnythingOfType("time.Time")).Return(false, nil)
		rates.On("Insert", ctx, mock.AnythingOfType("*models.ExchangeRate")).Return(nil)

		rate, err := service.SaveRate(ctx, validRequest())

		assert.NoError(t, err)
		assert.Equal(t, "ORO", rate.FromCurrencyCode)
		assert.Equal(t, "TIB", rate.ToCurrencyCode)
		assert.True(t, rate.IsActive)
		rates.AssertExpectations(t)
	})

	t.Run("unknown currency is rejected", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		currencies.On("GetActiveByCode", ctx, "ORO").Return(nil, apperrors.ErrCurrencyNotFound)

		_, err := service.SaveRate(ctx, validRequest())

		assert.ErrorIs(t, err, apperrors.ErrCurrencyNotFound)
		rates.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("non-positive and oversized rates are rejected", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		currencies.On("GetActiveByCode", ctx, mock.Anything).Return(activeCurrency("ORO"), nil)

		req := validRequest()
		req.Rate = decimal.Zero
		_, err := service.SaveRate(ctx, req)
		assert.Error(t, err)

		req = validRequest()
		req.Rate = decimal.NewFromInt(2_000_000)
		_, err = service.SaveRate(ctx, req)
		assert.Error(t, err)
	})

	t.Run("conflicting effective date is rejected", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		currencies.On("GetActiveByCode", ctx, mock.Anything).Return(activeCurrency("ORO"), nil)
		rates.On("ExistsActiveOnDate", ctx, "ORO", "TIB", mock.AnythingOfType("time.Time")).Return(true, nil)

		_, err := service.SaveRate(ctx, validRequest())

		assert.ErrorIs(t, err, apperrors.ErrRateAlreadyExists)
	})

	t.Run("same currency pair is rejected", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		req := validRequest()
		req.ToCurrencyCode = "ORO"
		_, err := service.SaveRate(ctx, req)

		assert.Error(t, err)
	})
}

func TestExchangeRateService_DeactivateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the historical copy before removing the active rate", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		active := &models.ExchangeRate{
			ID:               primitive.NewObjectID(),
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			Rate:             decimal.RequireFromString("2.5"),
			IsActive:         true,
		}
		rates.On("FindLatestActive", ctx, "ORO", "TIB").Return(active, nil)
		rates.On("Insert", ctx, mock.MatchedBy(func(hist *models.ExchangeRate) bool {
			return !hist.IsActive && hist.DeactivatedAt != nil && hist.Rate.Equal(active.Rate)
		})).Return(nil)
		rates.On("DeleteByID", ctx, active.ID).Return(nil)

		err := service.DeactivateRate(ctx, "oro", "tib")

		assert.NoError(t, err)
		rates.AssertExpectations(t)
	})

	t.Run("missing active rate is not found", func(t *testing.T) {
		rates := new(MockExchangeRateRepository)
		currencies := new(MockCurrencyRepository)
		service := NewExchangeRateService(rates, currencies, testLogger())

		rates.On("FindLatestActive", ctx, "ORO", "TIB").Return(nil, apperrors.ErrExchangeRateNotFound)

		err := service.DeactivateRate(ctx, "ORO", "TIB")

		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})
}
