package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CreditPosting asks the ledger to add funds.
type CreditPosting struct {
	UserID             string
	Amount             decimal.Decimal
	Currency           domain.Currency
	SourceRequestID    *string
	SourceRedemptionID *string
	Description        string
	PostedBy           domain.Actor
}

// DebitPosting asks the ledger to remove funds against one unredeemed credit.
type DebitPosting struct {
	UserID             string
	Amount             decimal.Decimal
	Currency           domain.Currency
	SourceRedemptionID string
	LinkedCreditTxnID  string
	Description        string
	PostedBy           domain.Actor
}

// WalletLedgerSvc appends to the per-user ledger. Calls for one user are linearized.
type WalletLedgerSvc interface {
	PostCredit(ctx context.Context, p CreditPosting) (*domain.WalletTransaction, error)
	PostDebit(ctx context.Context, p DebitPosting) (*domain.WalletTransaction, error)
}

// WalletReaderSvc exposes balances and history.
type WalletReaderSvc interface {
	GetBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, actor domain.Actor, userID string, params dto.ListWalletTransactionsParams) (*dto.ListWalletTransactionsResponse, error)
	GetTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.WalletTransaction, error)
	VerifyBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.BalanceCheck, error)
}

// WalletSvcFacade combines all wallet service interfaces.
type WalletSvcFacade interface {
	WalletLedgerSvc
	WalletReaderSvc
}
