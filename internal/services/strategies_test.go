package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// Mock implementations
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) ResolveRate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error) {
	args := m.Called(ctx, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) SaveRate(ctx context.Context, req *dto.NewExchangeRateRequest) (*models.ExchangeRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) DeactivateRate(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

func (m *MockExchangeRateService) GetHistory(ctx context.Context, req *dto.RateHistoryRequest) ([]models.ExchangeRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ListActiveRates(ctx context.Context) ([]models.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

type MockProductRateService struct {
	mock.Mock
}

func (m *MockProductRateService) ResolveRate(ctx context.Context, productID int64, from, to string, date time.Time) (*models.ProductExchangeRate, error) {
	args := m.Called(ctx, productID, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductExchangeRate), args.Error(1)
}

func (m *MockProductRateService) SaveRate(ctx context.Context, req *dto.NewProductExchangeRateRequest) (*models.ProductExchangeRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductExchangeRate), args.Error(1)
}

func (m *MockProductRateService) DeactivateRate(ctx context.Context, productID int64, from, to string) error {
	args := m.Called(ctx, productID, from, to)
	return args.Error(0)
}

type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) GetProductInfo(ctx context.Context, productID int64) (*models.ProductInfo, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductInfo), args.Error(1)
}

func (m *MockProductClient) GetKingdomInfo(ctx context.Context, kingdomID int64) (*models.KingdomInfo, error) {
	args := m.Called(ctx, kingdomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KingdomInfo), args.Error(1)
}

func TestStandardStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("handles only currency requests", func(t *testing.T) {
		strategy := NewStandardStrategy(new(MockExchangeRateService), new(MockProductClient), testLogger())

		productID := int64(7)
		assert.True(t, strategy.CanHandle(&dto.ConversionRequest{
			QuantityCurrency: decimal.NewFromInt(100),
		}))
		assert.False(t, strategy.CanHandle(&dto.ConversionRequest{
			ProductID:       &productID,
			QuantityProduct: 5,
		}))
		assert.False(t, strategy.CanHandle(&dto.ConversionRequest{}))
	})

	t.Run("converts with the resolved base rate", func(t *testing.T) {
		rates := new(MockExchangeRateService)
		products := new(MockProductClient)
		strategy := NewStandardStrategy(rates, products, testLogger())

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}
		rates.On("ResolveRate", ctx, "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("2.5")}, nil)

		result, err := strategy.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "250", result.ConvertedAmount.String())
		assert.True(t, result.AppliedRate.Equal(decimal.RequireFromString("2.5")))
		assert.True(t, result.Multiplier.Equal(decimal.NewFromInt(1)))
		products.AssertNotCalled(t, "GetKingdomInfo", mock.Anything, mock.Anything)
	})

	t.Run("applies the kingdom factors when a kingdom is named", func(t *testing.T) {
		rates := new(MockExchangeRateService)
		products := new(MockProductClient)
		strategy := NewStandardStrategy(rates, products, testLogger())

		kingdomID := int64(3)
		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
			KingdomID:        &kingdomID,
		}
		rates.On("ResolveRate", ctx, "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("2.5")}, nil)
		products.On("GetKingdomInfo", ctx, int64(3)).Return(&models.KingdomInfo{
			ID:          3,
			QualityRate: decimal.NewFromInt(1),
			IsOwner:     true,
			IsActive:    true,
		}, nil)

		result, err := strategy.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "275", result.ConvertedAmount.String())
	})

	t.Run("missing rate propagates", func(t *testing.T) {
		rates := new(MockExchangeRateService)
		strategy := NewStandardStrategy(rates, new(MockProductClient), testLogger())

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "PRA",
			QuantityCurrency: decimal.NewFromInt(100),
		}
		rates.On("ResolveRate", ctx, "ORO", "PRA", mock.AnythingOfType("time.Time")).
			Return(nil, apperrors.ErrExchangeRateNotFound)

		_, err := strategy.Convert(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})
}

func TestProductStrategy(t *testing.T) {
	ctx := context.Background()
	productID := int64(7)

	activeProduct := &models.ProductInfo{
		ID:               7,
		DemandQuantifier: decimal.NewFromInt(1),
		QualityQualifier: decimal.NewFromInt(1),
		IsActive:         true,
	}

	baseRequest := func() *dto.ConversionRequest {
		return &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityProduct:  10,
			ProductID:        &productID,
		}
	}

	t.Run("handles only product requests", func(t *testing.T) {
		strategy := NewProductStrategy(new(MockProductRateService), new(MockExchangeRateService), new(MockProductClient), testLogger())

		assert.True(t, strategy.CanHandle(baseRequest()))
		assert.False(t, strategy.CanHandle(&dto.ConversionRequest{
			QuantityCurrency: decimal.NewFromInt(100),
		}))
	})

	t.Run("uses the product rate override when present", func(t *testing.T) {
		productRates := new(MockProductRateService)
		baseRates := new(MockExchangeRateService)
		products := new(MockProductClient)
		strategy := NewProductStrategy(productRates, baseRates, products, testLogger())

		products.On("GetProductInfo", ctx, int64(7)).Return(activeProduct, nil)
		productRates.On("ResolveRate", ctx, int64(7), "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(&models.ProductExchangeRate{
				BaseRate:          decimal.NewFromInt(2),
				ProductMultiplier: decimal.RequireFromString("1.5"),
			}, nil)

		result, err := strategy.Convert(ctx, baseRequest())

		assert.NoError(t, err)
		// 10 * 2 * 1.5 = 30
		assert.Equal(t, "30", result.ConvertedAmount.String())
		assert.True(t, result.Multiplier.Equal(decimal.RequireFromString("1.5")))
		baseRates.AssertNotCalled(t, "ResolveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to the base rate with neutral multiplier", func(t *testing.T) {
		productRates := new(MockProductRateService)
		baseRates := new(MockExchangeRateService)
		products := new(MockProductClient)
		strategy := NewProductStrategy(productRates, baseRates, products, testLogger())

		products.On("GetProductInfo", ctx, int64(7)).Return(activeProduct, nil)
		productRates.On("ResolveRate", ctx, int64(7), "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(nil, apperrors.ErrProductRateNotFound)
		baseRates.On("ResolveRate", ctx, "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(&models.ExchangeRate{Rate: decimal.RequireFromString("2.5")}, nil)

		result, err := strategy.Convert(ctx, baseRequest())

		assert.NoError(t, err)
		// 10 * 2.5 = 25
		assert.Equal(t, "25", result.ConvertedAmount.String())
		assert.True(t, result.Multiplier.Equal(decimal.NewFromInt(1)))
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		products := new(MockProductClient)
		strategy := NewProductStrategy(new(MockProductRateService), new(MockExchangeRateService), products, testLogger())

		products.On("GetProductInfo", ctx, int64(7)).Return(&models.ProductInfo{ID: 7, IsActive: false}, nil)

		_, err := strategy.Convert(ctx, baseRequest())

		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})

	t.Run("product kingdom applies when the request names none", func(t *testing.T) {
		productRates := new(MockProductRateService)
		baseRates := new(MockExchangeRateService)
		products := new(MockProductClient)
		strategy := NewProductStrategy(productRates, baseRates, products, testLogger())

		ownedProduct := &models.ProductInfo{
			ID:               7,
			DemandQuantifier: decimal.NewFromInt(1),
			QualityQualifier: decimal.NewFromInt(1),
			KingdomID:        3,
			IsActive:         true,
		}
		products.On("GetProductInfo", ctx, int64(7)).Return(ownedProduct, nil)
		products.On("GetKingdomInfo", ctx, int64(3)).Return(&models.KingdomInfo{
			ID:          3,
			QualityRate: decimal.NewFromInt(1),
			IsOwner:     true,
			IsActive:    true,
		}, nil)
		productRates.On("ResolveRate", ctx, int64(7), "ORO", "TIB", mock.AnythingOfType("time.Time")).
			Return(&models.ProductExchangeRate{
				BaseRate:          decimal.NewFromInt(2),
				ProductMultiplier: decimal.NewFromInt(1),
			}, nil)

		result, err := strategy.Convert(ctx, baseRequest())

		assert.NoError(t, err)
		// 10 * 2 * 1.1 = 22
		assert.Equal(t, "22", result.ConvertedAmount.String())
	})
}
