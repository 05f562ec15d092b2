package repositories

import (
	"context"
)

// TransactionManager runs work inside one database transaction.
// Repositories called with the ctx passed to fn join that transaction.
// Nested calls reuse the outer transaction instead of opening a new one.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
