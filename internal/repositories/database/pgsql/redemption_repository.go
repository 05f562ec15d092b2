package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/mapping"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRedemptionRepository struct {
	BaseRepository
}

func newPgxRedemptionRepository(pool *pgxpool.Pool) portsrepo.RedemptionRepositoryFacade {
	return &PgxRedemptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RedemptionRepositoryFacade = (*PgxRedemptionRepository)(nil)

const redemptionColumns = `redemption_id, user_id, credit_transaction_id, debit_transaction_id, amount, currency,
	status, notes, processed_by, processed_at, transaction_reference, payment_notes, rejection_reason,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRedemption(row pgx.Row) (models.RedemptionRequest, error) {
	var m models.RedemptionRequest
	err := row.Scan(
		&m.RedemptionID,
		&m.UserID,
		&m.CreditTransactionID,
		&m.DebitTransactionID,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.Notes,
		&m.ProcessedBy,
		&m.ProcessedAt,
		&m.TransactionReference,
		&m.PaymentNotes,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxRedemptionRepository) SaveRedemption(ctx context.Context, red domain.RedemptionRequest) error {
	m := mapping.ToModelRedemption(red)
	query := `
		INSERT INTO redemption_requests (` + redemptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.RedemptionID,
		m.UserID,
		m.CreditTransactionID,
		m.DebitTransactionID,
		m.Amount,
		m.Currency,
		m.Status,
		m.Notes,
		m.ProcessedBy,
		m.ProcessedAt,
		m.TransactionReference,
		m.PaymentNotes,
		m.RejectionReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "redemption_requests_credit_transaction_id_key") {
			return apperrors.Newf(apperrors.ErrPrecondition, "credit transaction %s is already redeemed", m.CreditTransactionID)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: redemption with ID %s already exists", apperrors.ErrDuplicate, m.RedemptionID)
		}
		return fmt.Errorf("failed to save redemption %s: %w", m.RedemptionID, err)
	}
	return nil
}

func (r *PgxRedemptionRepository) FindRedemptionByID(ctx context.Context, redemptionID string) (*domain.RedemptionRequest, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemption_requests WHERE redemption_id = $1;`
	m, err := scanRedemption(r.db(ctx).QueryRow(ctx, query, redemptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "redemption %s not found", redemptionID)
		}
		return nil, fmt.Errorf("failed to find redemption %s: %w", redemptionID, err)
	}
	red := mapping.ToDomainRedemption(m)
	return &red, nil
}

// ListRedemptions returns the queue oldest first so payouts are worked in arrival order.
func (r *PgxRedemptionRepository) ListRedemptions(ctx context.Context, filter domain.RedemptionFilter, limit int, nextToken *string) ([]domain.RedemptionRequest, *string, error) {
	limit = pagination.ClampLimit(limit)
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = "+arg(*filter.UserID))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		conditions = append(conditions, "(created_at, redemption_id) > ("+arg(lastCreatedAt)+", "+arg(lastID)+")")
	}

	query := `SELECT ` + redemptionColumns + ` FROM redemption_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, redemption_id ASC LIMIT " + arg(fetchLimit) + ";"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query redemptions: %w", err)
	}
	defer rows.Close()

	results := make([]domain.RedemptionRequest, 0, fetchLimit)
	for rows.Next() {
		m, err := scanRedemption(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan redemption row: %w", err)
		}
		results = append(results, mapping.ToDomainRedemption(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating redemption rows: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.RedemptionID)
		nextTokenVal = &token
		results = results[:limit]
	}
	return results, nextTokenVal, nil
}

func (r *PgxRedemptionRepository) SetDebitTransaction(ctx context.Context, redemptionID, transactionID string) error {
	query := `
		UPDATE redemption_requests SET debit_transaction_id = $1
		WHERE redemption_id = $2 AND debit_transaction_id IS NULL;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, transactionID, redemptionID)
	if err != nil {
		return fmt.Errorf("failed to link debit to redemption %s: %w", redemptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrPrecondition, "redemption %s already has a debit", redemptionID)
	}
	return nil
}

// UpdateRedemptionStatus is a compare-and-set on status that also stamps payout metadata.
func (r *PgxRedemptionRepository) UpdateRedemptionStatus(ctx context.Context, update domain.RedemptionStatusUpdate) error {
	var currency *string
	if update.Currency != nil {
		c := string(*update.Currency)
		currency = &c
	}
	query := `
		UPDATE redemption_requests
		SET status = $1,
		    currency = COALESCE($2, currency),
		    processed_by = COALESCE($3, processed_by),
		    processed_at = COALESCE($4, processed_at),
		    transaction_reference = COALESCE($5, transaction_reference),
		    payment_notes = COALESCE($6, payment_notes),
		    rejection_reason = COALESCE($7, rejection_reason),
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE redemption_id = $10 AND status = $11;`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		string(update.To),
		currency,
		update.ProcessedBy,
		update.ProcessedAt,
		update.TransactionReference,
		update.PaymentNotes,
		update.RejectionReason,
		update.UpdatedAt,
		update.UpdatedBy,
		update.RedemptionID,
		string(update.From),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of redemption %s: %w", update.RedemptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrPrecondition, "redemption %s is no longer %s", update.RedemptionID, update.From)
	}
	return nil
}
