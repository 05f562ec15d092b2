package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/accounting"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxWalletRepository struct {
	BaseRepository
}

func newPgxWalletRepository(pool *pgxpool.Pool, txTimeout time.Duration) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool, TxTimeout: txTimeout}}
}

var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

const walletTxnColumns = `transaction_id, user_id, sequence, txn_type, amount, currency, balance,
	source_request_id, source_redemption_id, linked_credit_txn_id, redeemed, redemption_id,
	description, created_at, created_by`

func scanWalletTransaction(row pgx.Row) (models.WalletTransaction, error) {
	var m models.WalletTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Sequence,
		&m.TxnType,
		&m.Amount,
		&m.Currency,
		&m.Balance,
		&m.SourceRequestID,
		&m.SourceRedemptionID,
		&m.LinkedCreditTxnID,
		&m.Redeemed,
		&m.RedemptionID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func (r *PgxWalletRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.WalletTransaction, error) {
	query := `SELECT ` + walletTxnColumns + ` FROM wallet_transactions WHERE transaction_id = $1;`
	m, err := scanWalletTransaction(r.db(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "wallet transaction %s not found", transactionID)
		}
		return nil, fmt.Errorf("failed to find wallet transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainWalletTransaction(m)
	return &txn, nil
}

func (r *PgxWalletRepository) ListTransactions(ctx context.Context, userID string, limit int, beforeSequence *int64) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows pgx.Rows
	var err error
	if beforeSequence != nil {
		query := `SELECT ` + walletTxnColumns + ` FROM wallet_transactions
			WHERE user_id = $1 AND sequence < $2 ORDER BY sequence DESC LIMIT $3;`
		rows, err = r.db(ctx).Query(ctx, query, userID, *beforeSequence, limit)
	} else {
		query := `SELECT ` + walletTxnColumns + ` FROM wallet_transactions
			WHERE user_id = $1 ORDER BY sequence DESC LIMIT $2;`
		rows, err = r.db(ctx).Query(ctx, query, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.WalletTransaction{}
	for rows.Next() {
		m, err := scanWalletTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainWalletTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}
	return txns, nil
}

// LedgerBalance reads the snapshot stored on the newest entry.
func (r *PgxWalletRepository) LedgerBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT balance FROM wallet_transactions WHERE user_id = $1 ORDER BY sequence DESC LIMIT 1;`
	err := r.db(ctx).QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read ledger balance for user %s: %w", userID, err)
	}
	return balance, nil
}

func (r *PgxWalletRepository) SumTransactions(ctx context.Context, userID string) (decimal.Decimal, int64, error) {
	var sum decimal.Decimal
	var count int64
	query := `
		SELECT COALESCE(SUM(CASE WHEN txn_type = 'credit' THEN amount ELSE -amount END), 0), COUNT(*)
		FROM wallet_transactions
		WHERE user_id = $1;`
	if err := r.db(ctx).QueryRow(ctx, query, userID).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum wallet transactions for user %s: %w", userID, err)
	}
	return sum, count, nil
}

func (r *PgxWalletRepository) FindWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT user_id, currency, balance, last_sequence, updated_at FROM wallets WHERE user_id = $1;`
	w, err := scanWallet(r.db(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "wallet for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to find wallet for user %s: %w", userID, err)
	}
	wallet := mapping.ToDomainWallet(w)
	return &wallet, nil
}

func scanWallet(row pgx.Row) (models.Wallet, error) {
	var m models.Wallet
	err := row.Scan(&m.UserID, &m.Currency, &m.Balance, &m.LastSequence, &m.UpdatedAt)
	return m, err
}

// AppendTransaction is the only way rows enter wallet_transactions. The wallet row is
// locked FOR UPDATE so appends for one user are strictly serialized.
func (r *PgxWalletRepository) AppendTransaction(ctx context.Context, posting domain.LedgerPosting, redemptionID *string) (*domain.WalletTransaction, error) {
	var created *domain.WalletTransaction
	err := r.WithinTx(ctx, func(ctx context.Context) error {
		db := r.db(ctx)

		_, err := db.Exec(ctx, `
			INSERT INTO wallets (user_id, currency, balance, last_sequence, updated_at)
			VALUES ($1, $2, 0, 0, $3)
			ON CONFLICT (user_id) DO NOTHING;`,
			posting.UserID, string(posting.Currency), posting.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to ensure wallet for user %s: %w", posting.UserID, err)
		}

		wallet, err := scanWallet(db.QueryRow(ctx, `
			SELECT user_id, currency, balance, last_sequence, updated_at
			FROM wallets WHERE user_id = $1 FOR UPDATE;`, posting.UserID))
		if err != nil {
			return fmt.Errorf("failed to lock wallet for user %s: %w", posting.UserID, err)
		}

		current, err := r.LedgerBalance(ctx, posting.UserID)
		if err != nil {
			return err
		}

		if posting.Type == domain.WalletDebit {
			if posting.LinkedCreditTxnID == nil {
				return fmt.Errorf("%w: debit must reference a credit transaction", apperrors.ErrValidation)
			}
			cmdTag, err := db.Exec(ctx, `
				UPDATE wallet_transactions
				SET redeemed = TRUE, redemption_id = $1
				WHERE transaction_id = $2 AND user_id = $3 AND txn_type = 'credit' AND redeemed = FALSE;`,
				redemptionID, *posting.LinkedCreditTxnID, posting.UserID)
			if err != nil {
				return fmt.Errorf("failed to mark credit %s redeemed: %w", *posting.LinkedCreditTxnID, err)
			}
			if cmdTag.RowsAffected() == 0 {
				return apperrors.Newf(apperrors.ErrPrecondition, "credit transaction %s is already redeemed", *posting.LinkedCreditTxnID)
			}
		}

		next, err := accounting.NextBalance(current, posting.Type, posting.Amount)
		if err != nil {
			return err
		}

		m := models.WalletTransaction{
			TransactionID:      posting.TransactionID,
			UserID:             posting.UserID,
			Sequence:           wallet.LastSequence + 1,
			TxnType:            string(posting.Type),
			Amount:             posting.Amount,
			Currency:           string(posting.Currency),
			Balance:            next,
			SourceRequestID:    posting.SourceRequestID,
			SourceRedemptionID: posting.SourceRedemptionID,
			LinkedCreditTxnID:  posting.LinkedCreditTxnID,
			Description:        posting.Description,
			CreatedAt:          posting.CreatedAt,
			CreatedBy:          posting.CreatedBy,
		}
		_, err = db.Exec(ctx, `
			INSERT INTO wallet_transactions (`+walletTxnColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NULL, $11, $12, $13);`,
			m.TransactionID,
			m.UserID,
			m.Sequence,
			m.TxnType,
			m.Amount,
			m.Currency,
			m.Balance,
			m.SourceRequestID,
			m.SourceRedemptionID,
			m.LinkedCreditTxnID,
			m.Description,
			m.CreatedAt,
			m.CreatedBy,
		)
		if err != nil {
			switch {
			case isUniqueViolation(err, "uq_wallet_credit_per_request"):
				return apperrors.Newf(apperrors.ErrDuplicate, "credit request %s is already credited", derefOr(m.SourceRequestID, ""))
			case isUniqueViolation(err, "uq_wallet_posting_per_redemption"):
				return apperrors.Newf(apperrors.ErrDuplicate, "redemption %s already has a %s posting", derefOr(m.SourceRedemptionID, ""), m.TxnType)
			case isUniqueViolation(err, ""):
				return fmt.Errorf("%w: wallet transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
			}
			return fmt.Errorf("failed to insert wallet transaction for user %s: %w", m.UserID, err)
		}

		_, err = db.Exec(ctx, `
			UPDATE wallets SET balance = $1, currency = $2, last_sequence = $3, updated_at = $4
			WHERE user_id = $5;`,
			next, m.Currency, m.Sequence, m.CreatedAt, m.UserID)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", m.UserID, err)
		}

		txn := mapping.ToDomainWalletTransaction(m)
		created = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
