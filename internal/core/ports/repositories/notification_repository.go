package repositories

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
}
