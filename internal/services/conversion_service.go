package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/cache"
	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/monitoring"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// ConversionService runs the full decision pipeline for one request:
// strategy selection, conversion arithmetic, risk analysis, and staging of
// confirmable outcomes in the pending store.
type ConversionService interface {
	Convert(ctx context.Context, req *dto.ConversionRequest) (*dto.ConversionResponse, error)
	ConfirmPending(ctx context.Context, transactionID string) (*models.PendingTransaction, error)
	GetPending(ctx context.Context, transactionID string) (*models.PendingTransaction, error)
}

type conversionService struct {
	selector *StrategySelector
	risk     RiskAnalyzer
	pending  cache.PendingStore
	metrics  monitoring.Metrics
	logger   *logrus.Logger
}

func NewConversionService(selector *StrategySelector, risk RiskAnalyzer, pending cache.PendingStore, metrics monitoring.Metrics, logger *logrus.Logger) ConversionService {
	return &conversionService{
		selector: selector,
		risk:     risk,
		pending:  pending,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *conversionService) Convert(ctx context.Context, req *dto.ConversionRequest) (*dto.ConversionResponse, error) {
	if err := validateConversionRequest(req); err != nil {
		return nil, err
	}

	strategy := s.selector.Select(req)
	if strategy == nil {
		// A request no strategy handles is a business rejection, not an
		// error: the decision is still produced and published.
		s.logger.Warnf("No conversion strategy for request %s->%s", req.FromCurrencyCode, req.ToCurrencyCode)
		s.metrics.RecordConversion(string(models.TransactionStatusNotApproved))
		return dto.NewRejectedResponse("No conversion strategy available for the request"), nil
	}

	result, err := strategy.Convert(ctx, req)
	if err != nil {
		return nil, err
	}

	assessment := s.risk.Analyze(req.FromCurrencyCode, req.ToCurrencyCode, result.AppliedRate, result.Multiplier)

	response := &dto.ConversionResponse{
		ConvertedAmount:  result.ConvertedAmount,
		Rate:             result.AppliedRate,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Status:           assessment.Status,
		Reason:           assessment.Reason,
		RiskScore:        assessment.RiskScore,
		Warnings:         assessment.Warnings,
		Recommendations:  assessment.Recommendations,
		CanProceed:       assessment.CanProceed,
		RequiresApproval: assessment.RequiresApproval,
	}

	if assessment.Status == models.TransactionStatusRequested {
		if err := s.stagePending(ctx, req, result, response); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordConversion(string(response.Status))
	s.logger.Infof("Conversion decided: %s->%s amount=%s status=%s score=%s",
		req.FromCurrencyCode, req.ToCurrencyCode, response.ConvertedAmount, response.Status, response.RiskScore)

	return response, nil
}

// stagePending stores the confirmable outcome with its fixed TTL and
// decorates the response with the confirmation coordinates.
func (s *conversionService) stagePending(ctx context.Context, req *dto.ConversionRequest, result *ConversionResult, response *dto.ConversionResponse) error {
	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	now := time.Now()
	expiresAt := now.Add(models.PendingTransactionTTL)

	pending := &models.PendingTransaction{
		TransactionID:    transactionID,
		ConvertedAmount:  result.ConvertedAmount,
		Rate:             result.AppliedRate,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		ProductID:        req.ProductID,
		KingdomID:        req.KingdomID,
		Status:           models.TransactionStatusRequested,
		Reason:           response.Reason,
		RiskScore:        response.RiskScore,
		Warnings:         response.Warnings,
		Recommendations:  response.Recommendations,
		CreatedAt:        now,
		ExpiresAt:        expiresAt,
	}

	if err := s.pending.Create(ctx, pending); err != nil {
		return apperrors.NewInternalError("Failed to stage pending transaction", err.Error())
	}

	response.TransactionID = transactionID
	response.ExpiresAt = &expiresAt
	response.ConfirmationURL = fmt.Sprintf("/api/v1/transactions/%s/confirm", transactionID)

	s.metrics.RecordPendingOp("create")
	return nil
}

// ConfirmPending consumes a staged outcome. An expired entry is
// indistinguishable from one that never existed.
func (s *conversionService) ConfirmPending(ctx context.Context, transactionID string) (*models.PendingTransaction, error) {
	pending, err := s.pending.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.pending.Delete(ctx, transactionID); err != nil {
		return nil, err
	}

	pending.Status = models.TransactionStatusApproved
	s.metrics.RecordPendingOp("confirm")
	s.logger.Infof("✅ Pending transaction confirmed: %s", transactionID)
	return pending, nil
}

func (s *conversionService) GetPending(ctx context.Context, transactionID string) (*models.PendingTransaction, error) {
	return s.pending.Get(ctx, transactionID)
}

func validateConversionRequest(req *dto.ConversionRequest) error {
	req.FromCurrencyCode = strings.ToUpper(strings.TrimSpace(req.FromCurrencyCode))
	req.ToCurrencyCode = strings.ToUpper(strings.TrimSpace(req.ToCurrencyCode))

	if req.FromCurrencyCode == "" || req.ToCurrencyCode == "" {
		return apperrors.NewValidationError("Source and target currency are required")
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return apperrors.NewValidationError("Source and target currency must differ")
	}
	if req.HasProduct() {
		if req.QuantityProduct <= 0 {
			return apperrors.NewValidationError("quantity_product must be positive for product conversions")
		}
	} else if !req.QuantityCurrency.IsPositive() {
		return apperrors.NewValidationError("quantity_currency must be positive")
	}
	return nil
}
