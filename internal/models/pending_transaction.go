package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingTransactionTTL is the window a REQUESTED conversion stays
// confirmable. Expiry is enforced by the transient store, never by a sweep.
const PendingTransactionTTL = 30 * time.Minute

// PendingTransaction is the time-bound snapshot of a conversion decision
// awaiting confirmation. It lives only in the transient store.
type PendingTransaction struct {
	TransactionID    string            `json:"transaction_id"`
	ConvertedAmount  decimal.Decimal   `json:"converted_amount"`
	Rate             decimal.Decimal   `json:"rate"`
	FromCurrencyCode string            `json:"from_currency_code"`
	ToCurrencyCode   string            `json:"to_currency_code"`
	ProductID        *int64            `json:"product_id,omitempty"`
	KingdomID        *int64            `json:"kingdom_id,omitempty"`
	Status           TransactionStatus `json:"status"`
	Reason           string            `json:"reason"`
	RiskScore        decimal.Decimal   `json:"risk_score"`
	Warnings         []string          `json:"warnings"`
	Recommendations  []string          `json:"recommendations"`
	CreatedAt        time.Time         `json:"created_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
}
