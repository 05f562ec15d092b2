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
	"github.com/SscSPs/incentive_wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, email, role, hod_id, employment_type, classification, currency,
	created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.Role,
		&m.HODID,
		&m.EmploymentType,
		&m.Classification,
		&m.Currency,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	m, err := scanUser(r.db(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at ASC;`
	rows, err := r.db(ctx).Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users with role %s: %w", role, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) IsInitiatorLinked(ctx context.Context, initiatorID, employeeID string) (bool, error) {
	var linked bool
	query := `SELECT EXISTS (SELECT 1 FROM initiator_links WHERE initiator_id = $1 AND employee_id = $2);`
	if err := r.db(ctx).QueryRow(ctx, query, initiatorID, employeeID).Scan(&linked); err != nil {
		return false, fmt.Errorf("failed to check initiator link %s -> %s: %w", initiatorID, employeeID, err)
	}
	return linked, nil
}

func (r *PgxUserRepository) HasPolicyAssignment(ctx context.Context, initiatorID, policyID, employeeID string) (bool, error) {
	var assigned bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM policy_assignments
			WHERE initiator_id = $1 AND policy_id = $2 AND employee_id = $3
		);`
	if err := r.db(ctx).QueryRow(ctx, query, initiatorID, policyID, employeeID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check policy assignment %s for %s: %w", policyID, employeeID, err)
	}
	return assigned, nil
}

func (r *PgxUserRepository) UpdateUserCurrency(ctx context.Context, userID string, currency domain.Currency) error {
	query := `
		UPDATE users
		SET currency = $1, last_updated_at = $2, last_updated_by = 'system'
		WHERE user_id = $3;`
	cmdTag, err := r.db(ctx).Exec(ctx, query, string(currency), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update currency for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.ErrNotFound, "user %s not found", userID)
	}
	return nil
}
