package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, title, message, action_url, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.db(ctx).Exec(ctx, query, n.NotificationID, n.UserID, n.Title, n.Message, n.ActionURL, n.ReadAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification for user %s: %w", n.UserID, err)
	}
	return nil
}
