package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionType is the direction of a ledger entry.
type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "credit"
	WalletDebit  WalletTransactionType = "debit"
)

// WalletTransaction is one immutable ledger entry. Only Redeemed and RedemptionID
// change after insert, and only once.
type WalletTransaction struct {
	TransactionID      string                `json:"transactionID"`
	UserID             string                `json:"userID"`
	Sequence           int64                 `json:"sequence"`
	Type               WalletTransactionType `json:"type"`
	Amount             decimal.Decimal       `json:"amount"`
	Currency           Currency              `json:"currency"`
	Balance            decimal.Decimal       `json:"balance"`
	SourceRequestID    *string               `json:"sourceRequestID,omitempty"`
	SourceRedemptionID *string               `json:"sourceRedemptionID,omitempty"`
	LinkedCreditTxnID  *string               `json:"linkedCreditTxnID,omitempty"`
	Redeemed           bool                  `json:"redeemed"`
	RedemptionID       *string               `json:"redemptionID,omitempty"`
	Description        string                `json:"description"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// SignedAmount is the balance delta this entry contributed.
func (t WalletTransaction) SignedAmount() decimal.Decimal {
	if t.Type == WalletDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// LedgerPosting is a request to append one entry to a user's ledger.
// Balance and Sequence are computed under the per-user lock.
type LedgerPosting struct {
	TransactionID      string
	UserID             string
	Type               WalletTransactionType
	Amount             decimal.Decimal
	Currency           Currency
	SourceRequestID    *string
	SourceRedemptionID *string
	LinkedCreditTxnID  *string
	Description        string
	CreatedBy          string
	CreatedAt          time.Time
}

// Wallet is the derived per-user view of the ledger.
type Wallet struct {
	UserID       string          `json:"userID"`
	Currency     Currency        `json:"currency"`
	Balance      decimal.Decimal `json:"balance"`
	LastSequence int64           `json:"lastSequence"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BalanceCheck compares the ledger's snapshot, the recomputed sum and the cached wallet row.
type BalanceCheck struct {
	UserID         string          `json:"userID"`
	LedgerBalance  decimal.Decimal `json:"ledgerBalance"`
	SummedBalance  decimal.Decimal `json:"summedBalance"`
	CachedBalance  decimal.Decimal `json:"cachedBalance"`
	Consistent     bool            `json:"consistent"`
	TransactionCnt int64           `json:"transactionCount"`
}
