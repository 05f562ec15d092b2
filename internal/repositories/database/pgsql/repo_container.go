package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories. txTimeout caps every transaction
// the services open.
func NewRepositoryProvider(dbPool *pgxpool.Pool, txTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      NewTxManager(dbPool, txTimeout),
		UserRepo:       newPgxUserRepository(dbPool),
		CreditRepo:     newPgxCreditRequestRepository(dbPool),
		WalletRepo:     newPgxWalletRepository(dbPool, txTimeout),
		RedemptionRepo: newPgxRedemptionRepository(dbPool),
		TimelineRepo:   newPgxTimelineRepository(dbPool, txTimeout),
		Notifications:  newPgxNotificationRepository(dbPool),
	}
}
