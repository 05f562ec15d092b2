package accounting

import (
	"fmt"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the ledger sign convention: credits add, debits subtract.
func SignedAmount(txnType domain.WalletTransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txnType {
	case domain.WalletCredit:
		return amount, nil
	case domain.WalletDebit:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown wallet transaction type '%s'", apperrors.ErrValidation, txnType)
	}
}

// NextBalance computes the balance after posting amount on top of current.
// Used both by the ledger service for pre-checks and by the repository under the wallet lock.
func NextBalance(current decimal.Decimal, txnType domain.WalletTransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount)
	}
	signed, err := SignedAmount(txnType, amount)
	if err != nil {
		return decimal.Zero, err
	}
	next := current.Add(signed)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: insufficient balance: have %s, need %s", apperrors.ErrPrecondition, current, amount)
	}
	return next, nil
}

// ReplayBalance recomputes the balance from a complete ledger.
func ReplayBalance(txns []domain.WalletTransaction) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, txn := range txns {
		signed, err := SignedAmount(txn.Type, txn.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("error calculating signed amount for transaction %s: %w", txn.TransactionID, err)
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}
