package repositories

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletReader defines read operations on the ledger.
type WalletReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.WalletTransaction, error)

	// ListTransactions returns newest first, starting strictly below beforeSequence when set.
	ListTransactions(ctx context.Context, userID string, limit int, beforeSequence *int64) ([]domain.WalletTransaction, error)

	// LedgerBalance returns the balance snapshot of the newest transaction, zero for an empty ledger.
	LedgerBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// SumTransactions recomputes the signed sum and count of every transaction.
	SumTransactions(ctx context.Context, userID string) (decimal.Decimal, int64, error)

	// FindWallet returns the cached wallet row; ErrNotFound when the user has no ledger yet.
	FindWallet(ctx context.Context, userID string) (*domain.Wallet, error)
}

// WalletWriter appends to the ledger.
type WalletWriter interface {
	// AppendTransaction serializes on the user's wallet row, computes the new balance from the
	// locked state and inserts the entry. For debits with LinkedCreditTxnID it flips that credit's
	// redeemed flag in the same transaction and fails with ErrPrecondition if it was already set.
	AppendTransaction(ctx context.Context, posting domain.LedgerPosting, redemptionID *string) (*domain.WalletTransaction, error)
}

// WalletRepositoryFacade combines all wallet repository interfaces.
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
