package mapping

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
)

// ToDomainWalletTransaction converts a model WalletTransaction to a domain WalletTransaction
func ToDomainWalletTransaction(m models.WalletTransaction) domain.WalletTransaction {
	return domain.WalletTransaction{
		TransactionID:      m.TransactionID,
		UserID:             m.UserID,
		Sequence:           m.Sequence,
		Type:               domain.WalletTransactionType(m.TxnType),
		Amount:             m.Amount,
		Currency:           domain.Currency(m.Currency),
		Balance:            m.Balance,
		SourceRequestID:    m.SourceRequestID,
		SourceRedemptionID: m.SourceRedemptionID,
		LinkedCreditTxnID:  m.LinkedCreditTxnID,
		Redeemed:           m.Redeemed,
		RedemptionID:       m.RedemptionID,
		Description:        m.Description,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

// ToDomainWallet converts a model Wallet to a domain Wallet
func ToDomainWallet(m models.Wallet) domain.Wallet {
	return domain.Wallet{
		UserID:       m.UserID,
		Currency:     domain.Currency(m.Currency),
		Balance:      m.Balance,
		LastSequence: m.LastSequence,
		UpdatedAt:    m.UpdatedAt,
	}
}
