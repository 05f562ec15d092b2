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

type PgxCreditRequestRepository struct {
	BaseRepository
}

func newPgxCreditRequestRepository(pool *pgxpool.Pool) portsrepo.CreditRequestRepositoryFacade {
	return &PgxCreditRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditRequestRepositoryFacade = (*PgxCreditRequestRepository)(nil)

const creditRequestColumns = `request_id, user_id, initiator_id, hod_id, request_type, policy_id, description,
	base_amount, bonus, deductions, amount, currency, status, signature_id, signed_at, rejection_reason,
	wallet_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

func scanCreditRequest(row pgx.Row) (models.CreditRequest, error) {
	var m models.CreditRequest
	err := row.Scan(
		&m.RequestID,
		&m.UserID,
		&m.InitiatorID,
		&m.HODID,
		&m.RequestType,
		&m.PolicyID,
		&m.Description,
		&m.BaseAmount,
		&m.Bonus,
		&m.Deductions,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.SignatureID,
		&m.SignedAt,
		&m.RejectionReason,
		&m.WalletTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCreditRequestRepository) SaveCreditRequest(ctx context.Context, req domain.CreditRequest) error {
	m := mapping.ToModelCreditRequest(req)
	query := `
		INSERT INTO credit_requests (` + creditRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.RequestID,
		m.UserID,
		m.InitiatorID,
		m.HODID,
		m.RequestType,
		m.PolicyID,
		m.Description,
		m.BaseAmount,
		m.Bonus,
		m.Deductions,
		m.Amount,
		m.Currency,
		m.Status,
		m.SignatureID,
		m.SignedAt,
		m.RejectionReason,
		m.WalletTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: credit request with ID %s already exists", apperrors.ErrDuplicate, m.RequestID)
		}
		return fmt.Errorf("failed to save credit request %s: %w", m.RequestID, err)
	}
	return nil
}

func (r *PgxCreditRequestRepository) FindCreditRequestByID(ctx context.Context, requestID string) (*domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE request_id = $1;`
	m, err := scanCreditRequest(r.db(ctx).QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "credit request %s not found", requestID)
		}
		return nil, fmt.Errorf("failed to find credit request %s: %w", requestID, err)
	}
	req := mapping.ToDomainCreditRequest(m)
	return &req, nil
}

func (r *PgxCreditRequestRepository) FindPendingSignatureForUser(ctx context.Context, userID string) (*domain.CreditRequest, error) {
	query := `
		SELECT ` + creditRequestColumns + `
		FROM credit_requests
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC, request_id ASC
		LIMIT 1;`
	m, err := scanCreditRequest(r.db(ctx).QueryRow(ctx, query, userID, string(domain.StatusPendingSignature)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "no credit request awaiting signature for user %s", userID)
		}
		return nil, fmt.Errorf("failed to find pending signature for user %s: %w", userID, err)
	}
	req := mapping.ToDomainCreditRequest(m)
	return &req, nil
}

// ListCreditRequests orders by (created_at DESC, request_id DESC) and pages with a keyset token.
func (r *PgxCreditRequestRepository) ListCreditRequests(ctx context.Context, filter domain.CreditRequestFilter, limit int, nextToken *string) ([]domain.CreditRequest, *string, error) {
	limit = pagination.ClampLimit(limit)
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var parties []string
	if filter.UserID != nil {
		parties = append(parties, "user_id = "+arg(*filter.UserID))
	}
	if filter.InitiatorID != nil {
		parties = append(parties, "initiator_id = "+arg(*filter.InitiatorID))
	}
	if filter.HODID != nil {
		parties = append(parties, "hod_id = "+arg(*filter.HODID))
	}
	if len(parties) > 0 {
		conditions = append(conditions, "("+strings.Join(parties, " OR ")+")")
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		conditions = append(conditions, "(created_at, request_id) < ("+arg(lastCreatedAt)+", "+arg(lastID)+")")
	}

	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, request_id DESC LIMIT " + arg(fetchLimit) + ";"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query credit requests: %w", err)
	}
	defer rows.Close()

	results := make([]domain.CreditRequest, 0, fetchLimit)
	for rows.Next() {
		m, err := scanCreditRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan credit request row: %w", err)
		}
		results = append(results, mapping.ToDomainCreditRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating credit request rows: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
		results = results[:limit]
	}
	return results, nextTokenVal, nil
}

// UpdateCreditRequestStatus is a compare-and-set on status. Zero affected rows means the
// request moved on (or never existed) since the caller read it.
func (r *PgxCreditRequestRepository) UpdateCreditRequestStatus(ctx context.Context, update portsrepo.CreditStatusUpdate) error {
	var signatureID any
	var signedAt any
	if update.Signature != nil {
		signatureID = update.Signature.SignatureID
		signedAt = update.Signature.SignedAt
	}

	query := `
		UPDATE credit_requests
		SET status = $1,
		    signature_id = COALESCE($2, signature_id),
		    signed_at = COALESCE($3, signed_at),
		    rejection_reason = COALESCE($4, rejection_reason),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE request_id = $7 AND status = $8;`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		string(update.To),
		signatureID,
		signedAt,
		update.RejectionReason,
		update.UpdatedAt,
		update.UpdatedBy,
		update.RequestID,
		string(update.From),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of credit request %s: %w", update.RequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrPrecondition, "credit request %s is no longer %s", update.RequestID, update.From)
	}
	return nil
}

func (r *PgxCreditRequestRepository) SetWalletTransaction(ctx context.Context, requestID, transactionID string) error {
	query := `
		UPDATE credit_requests SET wallet_transaction_id = $1
		WHERE request_id = $2 AND wallet_transaction_id IS NULL;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, transactionID, requestID)
	if err != nil {
		return fmt.Errorf("failed to link wallet transaction to credit request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrPrecondition, "credit request %s is already credited", requestID)
	}
	return nil
}
