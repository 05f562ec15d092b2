package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/dto"
	"github.com/SscSPs/incentive_wallet_app/internal/platform/metrics"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type walletService struct {
	BaseService
	walletRepo portsrepo.WalletRepositoryFacade
	currency   portssvc.CurrencyPolicySvc
}

// NewWalletService creates the ledger service. The balance snapshot on the newest
// ledger entry is the source of truth; the wallets row is a cache and lock target.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, currency portssvc.CurrencyPolicySvc) portssvc.WalletSvcFacade {
	return &walletService{walletRepo: walletRepo, currency: currency}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

func (s *walletService) PostCredit(ctx context.Context, p portssvc.CreditPosting) (*domain.WalletTransaction, error) {
	posting := domain.LedgerPosting{
		TransactionID:      uuid.NewString(),
		UserID:             p.UserID,
		Type:               domain.WalletCredit,
		Amount:             p.Amount,
		Currency:           p.Currency,
		SourceRequestID:    p.SourceRequestID,
		SourceRedemptionID: p.SourceRedemptionID,
		Description:        p.Description,
		CreatedBy:          p.PostedBy.UserID,
		CreatedAt:          nowUTC(),
	}
	return s.post(ctx, posting, nil)
}

func (s *walletService) PostDebit(ctx context.Context, p portssvc.DebitPosting) (*domain.WalletTransaction, error) {
	if p.LinkedCreditTxnID == "" || p.SourceRedemptionID == "" {
		return nil, s.reject(ctx, fmt.Errorf("%w: a debit must reference a redemption and a credit transaction", apperrors.ErrValidation), p.UserID)
	}
	posting := domain.LedgerPosting{
		TransactionID:      uuid.NewString(),
		UserID:             p.UserID,
		Type:               domain.WalletDebit,
		Amount:             p.Amount,
		Currency:           p.Currency,
		SourceRedemptionID: stringPtr(p.SourceRedemptionID),
		LinkedCreditTxnID:  stringPtr(p.LinkedCreditTxnID),
		Description:        p.Description,
		CreatedBy:          p.PostedBy.UserID,
		CreatedAt:          nowUTC(),
	}
	return s.post(ctx, posting, stringPtr(p.SourceRedemptionID))
}

// post validates the posting against the currency policy and appends it under the user's lock.
func (s *walletService) post(ctx context.Context, posting domain.LedgerPosting, redemptionID *string) (*domain.WalletTransaction, error) {
	if posting.UserID == "" {
		return nil, s.reject(ctx, fmt.Errorf("%w: user id is required", apperrors.ErrValidation), posting.UserID)
	}
	if !posting.Amount.IsPositive() {
		return nil, s.reject(ctx, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation), posting.UserID)
	}
	expected, err := s.currency.ExpectedCurrency(ctx, posting.UserID)
	if err != nil {
		return nil, s.reject(ctx, err, posting.UserID)
	}
	if posting.Currency != expected {
		return nil, s.reject(ctx, fmt.Errorf("%w: posting currency %s does not match the user's currency %s",
			apperrors.ErrValidation, posting.Currency, expected), posting.UserID)
	}
	if err := expected.CheckScale(posting.Amount); err != nil {
		return nil, s.reject(ctx, err, posting.UserID)
	}

	txn, err := s.walletRepo.AppendTransaction(ctx, posting, redemptionID)
	if err != nil {
		return nil, s.reject(ctx, err, posting.UserID)
	}

	metrics.LedgerPostings.WithLabelValues(string(txn.Type), string(txn.Currency)).Inc()
	s.LogInfo(ctx, "Ledger entry appended",
		slog.String("user_id", txn.UserID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()),
		slog.String("balance", txn.Balance.String()),
		slog.Int64("sequence", txn.Sequence))
	return txn, nil
}

func (s *walletService) reject(ctx context.Context, err error, userID string) error {
	metrics.LedgerRejections.WithLabelValues(errorKind(err)).Inc()
	s.LogWarn(ctx, "Ledger posting rejected", slog.String("user_id", userID), slog.String("error", err.Error()))
	return err
}

// authorizeWalletRead lets users read their own wallet and finance roles read anyone's.
// An empty userID means the actor's own wallet.
func authorizeWalletRead(actor domain.Actor, userID string) (string, error) {
	if userID == "" || userID == actor.UserID {
		return actor.UserID, nil
	}
	if !actor.CanReadFinance() {
		return "", fmt.Errorf("%w: cannot read another user's wallet", apperrors.ErrForbidden)
	}
	return userID, nil
}

func (s *walletService) GetBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.Wallet, error) {
	userID, err := authorizeWalletRead(actor, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.walletRepo.LedgerBalance(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger balance", slog.String("user_id", userID))
		return nil, err
	}

	wallet, err := s.walletRepo.FindWallet(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		currency, cerr := s.currency.ExpectedCurrency(ctx, userID)
		if cerr != nil {
			return nil, cerr
		}
		return &domain.Wallet{UserID: userID, Currency: currency, Balance: decimal.Zero}, nil
	}
	wallet.Balance = balance
	return wallet, nil
}

func (s *walletService) ListTransactions(ctx context.Context, actor domain.Actor, userID string, params dto.ListWalletTransactionsParams) (*dto.ListWalletTransactionsResponse, error) {
	userID, err := authorizeWalletRead(actor, userID)
	if err != nil {
		return nil, err
	}

	limit := pagination.ClampLimit(params.Limit)
	var before *int64
	if params.NextToken != nil && *params.NextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		before = &seq
	}

	txns, err := s.walletRepo.ListTransactions(ctx, userID, limit+1, before)
	if err != nil {
		s.LogError(ctx, err, "Failed to list wallet transactions", slog.String("user_id", userID))
		return nil, err
	}

	var nextToken *string
	if len(txns) > limit {
		token := pagination.EncodeSequenceToken(txns[limit-1].Sequence)
		nextToken = &token
		txns = txns[:limit]
	}
	resp := dto.ToListWalletTransactionsResponse(txns, nextToken)
	return &resp, nil
}

func (s *walletService) GetTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.WalletTransaction, error) {
	txn, err := s.walletRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeWalletRead(actor, txn.UserID); err != nil {
		return nil, err
	}
	return txn, nil
}

// VerifyBalance recomputes the balance three ways. Disagreement is reported, not repaired.
func (s *walletService) VerifyBalance(ctx context.Context, actor domain.Actor, userID string) (*domain.BalanceCheck, error) {
	userID, err := authorizeWalletRead(actor, userID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.walletRepo.LedgerBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, count, err := s.walletRepo.SumTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	cached := decimal.Zero
	wallet, err := s.walletRepo.FindWallet(ctx, userID)
	switch {
	case err == nil:
		cached = wallet.Balance
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	check := &domain.BalanceCheck{
		UserID:         userID,
		LedgerBalance:  ledger,
		SummedBalance:  sum,
		CachedBalance:  cached,
		TransactionCnt: count,
		Consistent:     ledger.Equal(sum) && ledger.Equal(cached),
	}
	if !check.Consistent {
		s.LogWarn(ctx, "Wallet balance inconsistency detected",
			slog.String("user_id", userID),
			slog.String("ledger", ledger.String()),
			slog.String("sum", sum.String()),
			slog.String("cached", cached.String()))
	}
	return check, nil
}
