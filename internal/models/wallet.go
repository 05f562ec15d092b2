package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is a row of the wallet_transactions table.
type WalletTransaction struct {
	TransactionID      string          `db:"transaction_id"`
	UserID             string          `db:"user_id"`
	Sequence           int64           `db:"sequence"`
	TxnType            string          `db:"txn_type"`
	Amount             decimal.Decimal `db:"amount"`
	Currency           string          `db:"currency"`
	Balance            decimal.Decimal `db:"balance"`
	SourceRequestID    *string         `db:"source_request_id"`
	SourceRedemptionID *string         `db:"source_redemption_id"`
	LinkedCreditTxnID  *string         `db:"linked_credit_txn_id"`
	Redeemed           bool            `db:"redeemed"`
	RedemptionID       *string         `db:"redemption_id"`
	Description        string          `db:"description"`
	CreatedAt          time.Time       `db:"created_at"`
	CreatedBy          string          `db:"created_by"`
}

// Wallet is a row of the wallets table.
type Wallet struct {
	UserID       string          `db:"user_id"`
	Currency     string          `db:"currency"`
	Balance      decimal.Decimal `db:"balance"`
	LastSequence int64           `db:"last_sequence"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
