package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
	"github.com/SscSPs/incentive_wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTimelineRepository only inserts and selects. The table also rejects
// UPDATE and DELETE with a trigger.
type PgxTimelineRepository struct {
	BaseRepository
}

func newPgxTimelineRepository(pool *pgxpool.Pool, txTimeout time.Duration) portsrepo.TimelineRepositoryFacade {
	return &PgxTimelineRepository{BaseRepository: BaseRepository{Pool: pool, TxTimeout: txTimeout}}
}

var _ portsrepo.TimelineRepositoryFacade = (*PgxTimelineRepository)(nil)

func (r *PgxTimelineRepository) InsertEntries(ctx context.Context, entries []domain.TimelineEntry) ([]domain.TimelineEntry, error) {
	if len(entries) == 0 {
		return []domain.TimelineEntry{}, nil
	}
	stored := make([]domain.TimelineEntry, 0, len(entries))
	err := r.WithinTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO timeline_entries (entry_id, entity_type, entity_id, step, actor_role, actor_id,
				signature_id, message, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING seq;`
		for _, e := range entries {
			m := mapping.ToModelTimelineEntry(e)
			if err := r.db(ctx).QueryRow(ctx, query,
				m.EntryID,
				m.EntityType,
				m.EntityID,
				m.Step,
				m.ActorRole,
				m.ActorID,
				m.SignatureID,
				m.Message,
				m.Metadata,
				m.CreatedAt,
			).Scan(&m.Seq); err != nil {
				if isUniqueViolation(err, "") {
					return fmt.Errorf("%w: timeline entry %s already recorded on %s %s", apperrors.ErrDuplicate, m.EntryID, m.EntityType, m.EntityID)
				}
				return fmt.Errorf("failed to insert timeline entry on %s %s: %w", m.EntityType, m.EntityID, err)
			}
			stored = append(stored, mapping.ToDomainTimelineEntry(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *PgxTimelineRepository) ListEntries(ctx context.Context, ref domain.EntityRef) ([]domain.TimelineEntry, error) {
	query := `
		SELECT seq, entry_id, entity_type, entity_id, step, actor_role, actor_id, signature_id, message, metadata, created_at
		FROM timeline_entries
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq ASC;`
	rows, err := r.db(ctx).Query(ctx, query, string(ref.Type), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline for %s %s: %w", ref.Type, ref.ID, err)
	}
	defer rows.Close()

	entries := []domain.TimelineEntry{}
	for rows.Next() {
		var m models.TimelineEntry
		if err := rows.Scan(
			&m.Seq,
			&m.EntryID,
			&m.EntityType,
			&m.EntityID,
			&m.Step,
			&m.ActorRole,
			&m.ActorID,
			&m.SignatureID,
			&m.Message,
			&m.Metadata,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		entries = append(entries, mapping.ToDomainTimelineEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}
	return entries, nil
}
