package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditRequest is a row of the credit_requests table.
type CreditRequest struct {
	RequestID           string          `db:"request_id"`
	UserID              string          `db:"user_id"`
	InitiatorID         string          `db:"initiator_id"`
	HODID               *string         `db:"hod_id"`
	RequestType         string          `db:"request_type"`
	PolicyID            *string         `db:"policy_id"`
	Description         string          `db:"description"`
	BaseAmount          decimal.Decimal `db:"base_amount"`
	Bonus               decimal.Decimal `db:"bonus"`
	Deductions          decimal.Decimal `db:"deductions"`
	Amount              decimal.Decimal `db:"amount"`
	Currency            string          `db:"currency"`
	Status              string          `db:"status"`
	SignatureID         *string         `db:"signature_id"`
	SignedAt            *time.Time      `db:"signed_at"`
	RejectionReason     *string         `db:"rejection_reason"`
	WalletTransactionID *string         `db:"wallet_transaction_id"`
	AuditFields
}
