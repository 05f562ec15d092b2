package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RedemptionRequest is a row of the redemption_requests table.
type RedemptionRequest struct {
	RedemptionID         string          `db:"redemption_id"`
	UserID               string          `db:"user_id"`
	CreditTransactionID  string          `db:"credit_transaction_id"`
	DebitTransactionID   *string         `db:"debit_transaction_id"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	Status               string          `db:"status"`
	Notes                string          `db:"notes"`
	ProcessedBy          *string         `db:"processed_by"`
	ProcessedAt          *time.Time      `db:"processed_at"`
	TransactionReference *string         `db:"transaction_reference"`
	PaymentNotes         *string         `db:"payment_notes"`
	RejectionReason      *string         `db:"rejection_reason"`
	AuditFields
}
