package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
)

// ConversionCommand asks the exchange service to run one conversion.
// Published by: transaction-api
// Consumed by: exchange-api
// The command/correlation pair must be echoed on the resulting event so the
// initiator can match asynchronous responses to requests.
type ConversionCommand struct {
	CommandID        string           `json:"command_id"`
	CorrelationID    string           `json:"correlation_id"`
	TransactionID    string           `json:"transaction_id,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
	FromCurrencyCode string           `json:"from_currency_code"`
	ToCurrencyCode   string           `json:"to_currency_code"`
	QuantityProduct  int64            `json:"quantity_product,omitempty"`
	QuantityCurrency *decimal.Decimal `json:"quantity_currency,omitempty"`
	ProductID        *int64           `json:"product_id,omitempty"`
	KingdomID        *int64           `json:"kingdom_id,omitempty"`
	ConversionDate   *time.Time       `json:"conversion_date,omitempty"`
}

// ConversionEvent carries the decision back to the initiator.
// Published by: exchange-api
// Consumed by: transaction-api
type ConversionEvent struct {
	EventID          string                   `json:"event_id"`
	CommandID        string                   `json:"command_id"`
	CorrelationID    string                   `json:"correlation_id"`
	TransactionID    string                   `json:"transaction_id,omitempty"`
	ConvertedAmount  decimal.Decimal          `json:"converted_amount"`
	Rate             decimal.Decimal          `json:"rate"`
	FromCurrencyCode string                   `json:"from_currency_code"`
	ToCurrencyCode   string                   `json:"to_currency_code"`
	Status           models.TransactionStatus `json:"status"`
	Reason           string                   `json:"reason,omitempty"`
	RiskScore        decimal.Decimal          `json:"risk_score"`
	Warnings         []string                 `json:"warnings,omitempty"`
	Recommendations  []string                 `json:"recommendations,omitempty"`
	CanProceed       bool                     `json:"can_proceed"`
	RequiresApproval bool                     `json:"requires_approval"`
	ProcessedAt      time.Time                `json:"processed_at"`
	ExpiresAt        *time.Time               `json:"expires_at,omitempty"`
	ConfirmationURL  string                   `json:"confirmation_url,omitempty"`
}

// ToConversionRequest maps the command payload into the pipeline input.
func (c *ConversionCommand) ToConversionRequest() *dto.ConversionRequest {
	req := &dto.ConversionRequest{
		TransactionID:    c.TransactionID,
		FromCurrencyCode: c.FromCurrencyCode,
		ToCurrencyCode:   c.ToCurrencyCode,
		QuantityProduct:  c.QuantityProduct,
		ProductID:        c.ProductID,
		KingdomID:        c.KingdomID,
		ConversionDate:   c.ConversionDate,
	}
	if c.QuantityCurrency != nil {
		req.QuantityCurrency = *c.QuantityCurrency
	}
	return req
}

// NewConversionEvent builds the success event, echoing the command and
// correlation identifiers of the originating command.
func NewConversionEvent(cmd *ConversionCommand, response *dto.ConversionResponse) *ConversionEvent {
	transactionID := response.TransactionID
	if transactionID == "" {
		transactionID = cmd.TransactionID
	}
	return &ConversionEvent{
		EventID:          uuid.NewString(),
		CommandID:        cmd.CommandID,
		CorrelationID:    cmd.CorrelationID,
		TransactionID:    transactionID,
		ConvertedAmount:  response.ConvertedAmount,
		Rate:             response.Rate,
		FromCurrencyCode: response.FromCurrencyCode,
		ToCurrencyCode:   response.ToCurrencyCode,
		Status:           response.Status,
		Reason:           response.Reason,
		RiskScore:        response.RiskScore,
		Warnings:         response.Warnings,
		Recommendations:  response.Recommendations,
		CanProceed:       response.CanProceed,
		RequiresApproval: response.RequiresApproval,
		ProcessedAt:      time.Now(),
		ExpiresAt:        response.ExpiresAt,
		ConfirmationURL:  response.ConfirmationURL,
	}
}

// NewErrorEvent builds the best-effort failure event for a command whose
// processing raised an error.
func NewErrorEvent(cmd *ConversionCommand, errorMessage string) *ConversionEvent {
	return &ConversionEvent{
		EventID:       uuid.NewString(),
		CommandID:     cmd.CommandID,
		CorrelationID: cmd.CorrelationID,
		TransactionID: cmd.TransactionID,
		Status:        models.TransactionStatusNotApproved,
		Reason:        errorMessage,
		CanProceed:    false,
		ProcessedAt:   time.Now(),
	}
}
