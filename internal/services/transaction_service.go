package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/messaging"
	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/internal/monitoring"
	"github.com/claudemirLima/changeApp/internal/repositories"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// staleAfter is how long a transaction may sit in REQUESTED before the
// periodic sweep rejects it, matching the confirmation window of a staged
// outcome.
const staleAfter = models.PendingTransactionTTL

// CommandSender publishes conversion commands toward the exchange service.
type CommandSender interface {
	PublishConversionCommand(ctx context.Context, cmd *messaging.ConversionCommand) error
}

// TransactionService is the initiating side of the conversion saga: it
// records the transaction, fires the command, and settles the record when
// the result event arrives.
type TransactionService interface {
	CreateTransaction(ctx context.Context, req *dto.NewTransactionRequest) (*dto.TransactionResponse, error)
	GetTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, req *dto.TransactionListRequest) (*dto.TransactionListResponse, error)
	ApproveTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error)
	RejectTransaction(ctx context.Context, transactionID, reason string) (*dto.TransactionResponse, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	ApplyConversionEvent(ctx context.Context, event *messaging.ConversionEvent) error
	ExpireStale(ctx context.Context) (int, error)
}

type transactionService struct {
	repo     repositories.TransactionRepository
	commands CommandSender
	metrics  monitoring.Metrics
	logger   *logrus.Logger
}

func NewTransactionService(repo repositories.TransactionRepository, commands CommandSender, metrics monitoring.Metrics, logger *logrus.Logger) TransactionService {
	return &transactionService{
		repo:     repo,
		commands: commands,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateTransaction records the transaction and publishes the conversion
// command. A publish failure does not fail the creation: the record stays
// REQUESTED and the stale sweep eventually rejects it.
func (s *transactionService) CreateTransaction(ctx context.Context, req *dto.NewTransactionRequest) (*dto.TransactionResponse, error) {
	if err := validateNewTransaction(req); err != nil {
		return nil, err
	}

	now := time.Now()
	transaction := &models.Transaction{
		TransactionID:    uuid.NewString(),
		CorrelationID:    uuid.NewString(),
		Type:             transactionType(req.Type),
		Status:           models.TransactionStatusRequested,
		OriginalAmount:   originalAmount(req),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		ProductID:        req.ProductID,
		KingdomID:        req.KingdomID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	cmd := s.buildCommand(transaction, req)
	if err := s.commands.PublishConversionCommand(ctx, cmd); err != nil {
		s.logger.Errorf("Failed to publish conversion command for transaction %s: %v",
			transaction.TransactionID, err)
	} else {
		s.metrics.RecordMessagePublished("conversion_command")
	}

	s.logger.Infof("📨 Transaction created: %s (correlation: %s)",
		transaction.TransactionID, transaction.CorrelationID)

	response := dto.FromTransaction(transaction)
	return &response, nil
}

func (s *transactionService) buildCommand(transaction *models.Transaction, req *dto.NewTransactionRequest) *messaging.ConversionCommand {
	cmd := &messaging.ConversionCommand{
		CommandID:        uuid.NewString(),
		CorrelationID:    transaction.CorrelationID,
		TransactionID:    transaction.TransactionID,
		Timestamp:        time.Now(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		QuantityProduct:  req.QuantityProduct,
		ProductID:        req.ProductID,
		KingdomID:        req.KingdomID,
	}
	if req.QuantityCurrency.IsPositive() {
		quantity := req.QuantityCurrency
		cmd.QuantityCurrency = &quantity
	}
	return cmd
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	response := dto.FromTransaction(transaction)
	return &response, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, req *dto.TransactionListRequest) (*dto.TransactionListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	transactions, total, err := s.repo.List(ctx, models.TransactionStatus(req.Status), page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, dto.FromTransaction(&transactions[i]))
	}

	return &dto.TransactionListResponse{
		Transactions: items,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (s *transactionService) ApproveTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.IsFinal() {
		return nil, apperrors.NewConflictError("Transaction is already settled")
	}

	transaction.Complete()
	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	s.logger.Infof("✅ Transaction approved: %s", transactionID)
	response := dto.FromTransaction(transaction)
	return &response, nil
}

func (s *transactionService) RejectTransaction(ctx context.Context, transactionID, reason string) (*dto.TransactionResponse, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.IsFinal() {
		return nil, apperrors.NewConflictError("Transaction is already settled")
	}

	if reason == "" {
		reason = "Rejected by operator"
	}
	transaction.Reject(reason)
	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	s.logger.Infof("Transaction rejected: %s (%s)", transactionID, reason)
	response := dto.FromTransaction(transaction)
	return &response, nil
}

// DeleteTransaction removes a settled transaction. A record still waiting
// for its result event cannot be deleted.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if transaction.IsPending() {
		return apperrors.NewConflictError("Transaction is still awaiting its conversion result")
	}

	if err := s.repo.Delete(ctx, transactionID); err != nil {
		return err
	}

	s.logger.Infof("Transaction deleted: %s", transactionID)
	return nil
}

// ApplyConversionEvent settles the transaction the event belongs to. Events
// are matched by transaction ID first, then by correlation ID. An event
// matching nothing returns ErrTransactionNotFound so the consumer can drop
// it.
func (s *transactionService) ApplyConversionEvent(ctx context.Context, event *messaging.ConversionEvent) error {
	transaction, err := s.matchTransaction(ctx, event)
	if err != nil {
		return err
	}

	transaction.Status = event.Status
	transaction.Reason = event.Reason
	transaction.ConvertedAmount = event.ConvertedAmount
	transaction.ExchangeRate = event.Rate
	transaction.RiskScore = event.RiskScore
	transaction.UpdatedAt = time.Now()

	if event.Status == models.TransactionStatusApproved {
		now := time.Now()
		transaction.CompletedAt = &now
	}

	if err := s.repo.Update(ctx, transaction); err != nil {
		return err
	}

	s.metrics.RecordMessageConsumed("conversion_event", "applied")
	s.logger.Infof("Transaction %s settled from event %s (status: %s)",
		transaction.TransactionID, event.EventID, event.Status)
	return nil
}

func (s *transactionService) matchTransaction(ctx context.Context, event *messaging.ConversionEvent) (*models.Transaction, error) {
	if event.TransactionID != "" {
		transaction, err := s.repo.GetByID(ctx, event.TransactionID)
		if err == nil {
			return transaction, nil
		}
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			return nil, err
		}
	}
	if event.CorrelationID != "" {
		return s.repo.GetByCorrelationID(ctx, event.CorrelationID)
	}
	return nil, apperrors.ErrTransactionNotFound
}

// ExpireStale rejects transactions stuck in REQUESTED past the stale
// window. Run periodically.
func (s *transactionService) ExpireStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	stale, err := s.repo.FindStaleRequested(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		transaction := &stale[i]
		transaction.Reject("Transaction expired without confirmation")
		if err := s.repo.Update(ctx, transaction); err != nil {
			s.logger.Errorf("Failed to expire transaction %s: %v", transaction.TransactionID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Infof("Expired %d stale transactions", expired)
	}
	return expired, nil
}

func validateNewTransaction(req *dto.NewTransactionRequest) error {
	req.FromCurrencyCode = strings.ToUpper(strings.TrimSpace(req.FromCurrencyCode))
	req.ToCurrencyCode = strings.ToUpper(strings.TrimSpace(req.ToCurrencyCode))

	if req.FromCurrencyCode == "" || req.ToCurrencyCode == "" {
		return apperrors.NewValidationError("Source and target currency are required")
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return apperrors.NewValidationError("Source and target currency must differ")
	}
	hasProduct := req.ProductID != nil && *req.ProductID > 0
	if hasProduct {
		if req.QuantityProduct <= 0 {
			return apperrors.NewValidationError("quantity_product must be positive for product conversions")
		}
	} else if !req.QuantityCurrency.IsPositive() {
		return apperrors.NewValidationError("quantity_currency must be positive")
	}
	return nil
}

func transactionType(raw string) models.TransactionType {
	if models.TransactionType(raw) == models.TransactionTypeExchange {
		return models.TransactionTypeExchange
	}
	return models.TransactionTypeConversion
}

func originalAmount(req *dto.NewTransactionRequest) decimal.Decimal {
	if req.QuantityCurrency.IsPositive() {
		return req.QuantityCurrency
	}
	return decimal.NewFromInt(req.QuantityProduct)
}
