package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string
type TransactionType string

const (
	TransactionStatusRequested   TransactionStatus = "REQUESTED"
	TransactionStatusApproved    TransactionStatus = "APPROVED"
	TransactionStatusNotApproved TransactionStatus = "NOT_APPROVED"
	TransactionStatusWarning     TransactionStatus = "WARNING"
)

const (
	TransactionTypeConversion TransactionType = "CONVERSION"
	TransactionTypeExchange   TransactionType = "EXCHANGE"
)

// Transaction is the initiator-side record of a conversion saga. The
// transaction ID doubles as the key the conversion event is matched against.
type Transaction struct {
	TransactionID    string            `bson:"_id" json:"transaction_id"`
	CorrelationID    string            `bson:"correlation_id" json:"correlation_id"`
	Type             TransactionType   `bson:"type" json:"type"`
	Status           TransactionStatus `bson:"status" json:"status"`
	Reason           string            `bson:"reason,omitempty" json:"reason,omitempty"`
	OriginalAmount   decimal.Decimal   `bson:"original_amount" json:"original_amount"`
	ConvertedAmount  decimal.Decimal   `bson:"converted_amount" json:"converted_amount"`
	FromCurrencyCode string            `bson:"from_currency_code" json:"from_currency_code"`
	ToCurrencyCode   string            `bson:"to_currency_code" json:"to_currency_code"`
	ExchangeRate     decimal.Decimal   `bson:"exchange_rate" json:"exchange_rate"`
	RiskScore        decimal.Decimal   `bson:"risk_score" json:"risk_score"`
	ProductID        *int64            `bson:"product_id,omitempty" json:"product_id,omitempty"`
	KingdomID        *int64            `bson:"kingdom_id,omitempty" json:"kingdom_id,omitempty"`
	CreatedAt        time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

func (t *Transaction) Reject(reason string) {
	t.Status = TransactionStatusNotApproved
	t.Reason = reason
	t.UpdatedAt = time.Now()
}

func (t *Transaction) Complete() {
	now := time.Now()
	t.Status = TransactionStatusApproved
	t.CompletedAt = &now
	t.UpdatedAt = now
}

func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusRequested
}

func (t *Transaction) IsFinal() bool {
	return t.Status == TransactionStatusApproved || t.Status == TransactionStatusNotApproved
}
