package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/monitoring"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// Mock implementations
type MockStrategy struct {
	mock.Mock
	name    string
	handles bool
}

func (m *MockStrategy) Name() string {
	return m.name
}

func (m *MockStrategy) CanHandle(req *dto.ConversionRequest) bool {
	return m.handles
}

func (m *MockStrategy) Convert(ctx context.Context, req *dto.ConversionRequest) (*ConversionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ConversionResult), args.Error(1)
}

type MockPendingStore struct {
	mock.Mock
}

func (m *MockPendingStore) Create(ctx context.Context, pending *models.PendingTransaction) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingStore) Get(ctx context.Context, transactionID string) (*models.PendingTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingTransaction), args.Error(1)
}

func (m *MockPendingStore) Delete(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockPendingStore) Exists(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendingStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPendingStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newConversionService(strategies []ConversionStrategy, pending *MockPendingStore) ConversionService {
	log := testLogger()
	return NewConversionService(
		NewStrategySelector(strategies...),
		NewRiskAnalyzer(log),
		pending,
		monitoring.NoopMetrics{},
		log,
	)
}

func TestConversionService_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("same currency is rejected before any strategy runs", func(t *testing.T) {
		pending := new(MockPendingStore)
		service := newConversionService(nil, pending)

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "oro",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		_, err := service.Convert(ctx, req)

		assert.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
		pending.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("no matching strategy yields a rejected decision, not an error", func(t *testing.T) {
		pending := new(MockPendingStore)
		strategy := &MockStrategy{name: "standard", handles: false}
		service := newConversionService([]ConversionStrategy{strategy}, pending)

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		response, err := service.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusNotApproved, response.Status)
		assert.False(t, response.CanProceed)
		assert.Contains(t, response.Warnings, "No conversion strategy available for the request")
	})

	t.Run("low risk outcome is staged for confirmation", func(t *testing.T) {
		pending := new(MockPendingStore)
		strategy := &MockStrategy{name: "standard", handles: true}
		service := newConversionService([]ConversionStrategy{strategy}, pending)

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		strategy.On("Convert", ctx, req).Return(&ConversionResult{
			ConvertedAmount: decimal.NewFromInt(250),
			AppliedRate:     decimal.RequireFromString("2.5"),
			Multiplier:      decimal.NewFromInt(1),
		}, nil)
		pending.On("Create", ctx, mock.AnythingOfType("*models.PendingTransaction")).Return(nil)

		response, err := service.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusRequested, response.Status)
		assert.True(t, response.CanProceed)
		assert.True(t, response.RequiresApproval)
		assert.NotEmpty(t, response.TransactionID)
		assert.NotNil(t, response.ExpiresAt)
		assert.Equal(t, "/api/v1/transactions/"+response.TransactionID+"/confirm", response.ConfirmationURL)

		pending.AssertExpectations(t)
		strategy.AssertExpectations(t)
	})

	t.Run("request transaction id is reused for the staged outcome", func(t *testing.T) {
		pending := new(MockPendingStore)
		strategy := &MockStrategy{name: "standard", handles: true}
		service := newConversionService([]ConversionStrategy{strategy}, pending)

		req := &dto.ConversionRequest{
			TransactionID:    "tx-123",
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		strategy.On("Convert", ctx, req).Return(&ConversionResult{
			ConvertedAmount: decimal.NewFromInt(250),
			AppliedRate:     decimal.RequireFromString("2.5"),
			Multiplier:      decimal.NewFromInt(1),
		}, nil)
		pending.On("Create", ctx, mock.MatchedBy(func(p *models.PendingTransaction) bool {
			return p.TransactionID == "tx-123"
		})).Return(nil)

		response, err := service.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "tx-123", response.TransactionID)
		pending.AssertExpectations(t)
	})

	t.Run("risky outcome is not staged", func(t *testing.T) {
		pending := new(MockPendingStore)
		strategy := &MockStrategy{name: "standard", handles: true}
		service := newConversionService([]ConversionStrategy{strategy}, pending)

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		// Applied rate 5 against reference 2.5 is a full deviation.
		strategy.On("Convert", ctx, req).Return(&ConversionResult{
			ConvertedAmount: decimal.NewFromInt(500),
			AppliedRate:     decimal.NewFromInt(5),
			Multiplier:      decimal.NewFromInt(1),
		}, nil)

		response, err := service.Convert(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusNotApproved, response.Status)
		assert.False(t, response.CanProceed)
		assert.Empty(t, response.TransactionID)
		pending.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("strategy errors propagate", func(t *testing.T) {
		pending := new(MockPendingStore)
		strategy := &MockStrategy{name: "standard", handles: true}
		service := newConversionService([]ConversionStrategy{strategy}, pending)

		req := &dto.ConversionRequest{
			FromCurrencyCode: "ORO",
			ToCurrencyCode:   "TIB",
			QuantityCurrency: decimal.NewFromInt(100),
		}

		strategy.On("Convert", ctx, req).Return(nil, apperrors.ErrExchangeRateNotFound)

		_, err := service.Convert(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})
}

func TestConversionService_ConfirmPending(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmation consumes the staged outcome", func(t *testing.T) {
		pending := new(MockPendingStore)
		service := newConversionService(nil, pending)

		staged := &models.PendingTransaction{
			TransactionID: "tx-123",
			Status:        models.TransactionStatusRequested,
		}
		pending.On("Get", ctx, "tx-123").Return(staged, nil)
		pending.On("Delete", ctx, "tx-123").Return(nil)

		confirmed, err := service.ConfirmPending(ctx, "tx-123")

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusApproved, confirmed.Status)
		pending.AssertExpectations(t)
	})

	t.Run("expired or unknown transaction cannot be confirmed", func(t *testing.T) {
		pending := new(MockPendingStore)
		service := newConversionService(nil, pending)

		pending.On("Get", ctx, "gone").Return(nil, apperrors.ErrPendingTransactionNotFound)

		_, err := service.ConfirmPending(ctx, "gone")

		assert.ErrorIs(t, err, apperrors.ErrPendingTransactionNotFound)
		pending.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestStrategySelector_Select(t *testing.T) {
	t.Run("first matching strategy wins", func(t *testing.T) {
		product := &MockStrategy{name: "product", handles: true}
		standard := &MockStrategy{name: "standard", handles: true}
		selector := NewStrategySelector(product, standard)

		selected := selector.Select(&dto.ConversionRequest{})

		assert.Equal(t, "product", selected.Name())
	})

	t.Run("falls through to the next strategy", func(t *testing.T) {
		product := &MockStrategy{name: "product", handles: false}
		standard := &MockStrategy{name: "standard", handles: true}
		selector := NewStrategySelector(product, standard)

		selected := selector.Select(&dto.ConversionRequest{})

		assert.Equal(t, "standard", selected.Name())
	})

	t.Run("nil when nothing matches", func(t *testing.T) {
		selector := NewStrategySelector(&MockStrategy{handles: false})

		assert.Nil(t, selector.Select(&dto.ConversionRequest{}))
	})
}
