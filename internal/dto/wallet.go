package dto

import (
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/utils"
	"github.com/shopspring/decimal"
)

// WalletBalanceResponse is the balance view of a user's ledger.
type WalletBalanceResponse struct {
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

// WalletTransactionResponse is one ledger entry.
type WalletTransactionResponse struct {
	TransactionID      string          `json:"transactionID"`
	Sequence           int64           `json:"sequence"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	Balance            decimal.Decimal `json:"balance"`
	SourceRequestID    *string         `json:"sourceRequestID,omitempty"`
	SourceRedemptionID *string         `json:"sourceRedemptionID,omitempty"`
	LinkedCreditTxnID  *string         `json:"linkedCreditTxnID,omitempty"`
	Redeemed           bool            `json:"redeemed"`
	RedemptionID       *string         `json:"redemptionID,omitempty"`
	Description        string          `json:"description"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ListWalletTransactionsParams holds query parameters for the ledger listing.
// UserID is only honored for finance roles.
type ListWalletTransactionsParams struct {
	UserID    string  `form:"userID"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListWalletTransactionsResponse wraps a page of ledger entries, newest first.
type ListWalletTransactionsResponse struct {
	Transactions []WalletTransactionResponse `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

// BalanceCheckResponse reports ledger consistency for one user.
type BalanceCheckResponse struct {
	UserID           string          `json:"userID"`
	LedgerBalance    decimal.Decimal `json:"ledgerBalance"`
	SummedBalance    decimal.Decimal `json:"summedBalance"`
	CachedBalance    decimal.Decimal `json:"cachedBalance"`
	TransactionCount int64           `json:"transactionCount"`
	Consistent       bool            `json:"consistent"`
}

// ToWalletTransactionResponse converts a ledger entry.
func ToWalletTransactionResponse(t *domain.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		TransactionID:      t.TransactionID,
		Sequence:           t.Sequence,
		Type:               string(t.Type),
		Amount:             t.Amount,
		Currency:           string(t.Currency),
		Balance:            t.Balance,
		SourceRequestID:    t.SourceRequestID,
		SourceRedemptionID: t.SourceRedemptionID,
		LinkedCreditTxnID:  t.LinkedCreditTxnID,
		Redeemed:           t.Redeemed,
		RedemptionID:       t.RedemptionID,
		Description:        t.Description,
		CreatedAt:          t.CreatedAt,
	}
}

// ToWalletTransactionResponses converts a slice of ledger entries.
func ToWalletTransactionResponses(txns []domain.WalletTransaction) []WalletTransactionResponse {
	out := make([]WalletTransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToWalletTransactionResponse(&txns[i])
	}
	return out
}

// ToBalanceCheckResponse converts a consistency report.
func ToBalanceCheckResponse(c *domain.BalanceCheck) BalanceCheckResponse {
	return BalanceCheckResponse{
		UserID:           c.UserID,
		LedgerBalance:    c.LedgerBalance,
		SummedBalance:    c.SummedBalance,
		CachedBalance:    c.CachedBalance,
		TransactionCount: c.TransactionCnt,
		Consistent:       c.Consistent,
	}
}

// ToWalletBalanceResponse converts a wallet view.
func ToWalletBalanceResponse(w *domain.Wallet) WalletBalanceResponse {
	return WalletBalanceResponse{
		UserID:    w.UserID,
		Balance:   w.Balance,
		Currency:  string(w.Currency),
		Formatted: utils.FormatAmount(w.Balance, w.Currency),
	}
}

// ToListWalletTransactionsResponse wraps a page of entries.
func ToListWalletTransactionsResponse(txns []domain.WalletTransaction, nextToken *string) ListWalletTransactionsResponse {
	return ListWalletTransactionsResponse{
		Transactions: ToWalletTransactionResponses(txns),
		NextToken:    nextToken,
	}
}
