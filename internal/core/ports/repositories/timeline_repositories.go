package repositories

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// TimelineReader reads audit trails.
type TimelineReader interface {
	// ListEntries returns the entity's entries in append order.
	ListEntries(ctx context.Context, ref domain.EntityRef) ([]domain.TimelineEntry, error)
}

// TimelineWriter only ever inserts.
type TimelineWriter interface {
	// InsertEntries stores entries and returns them with their assigned sequence.
	InsertEntries(ctx context.Context, entries []domain.TimelineEntry) ([]domain.TimelineEntry, error)
}

// TimelineRepositoryFacade combines all timeline repository interfaces.
type TimelineRepositoryFacade interface {
	TimelineReader
	TimelineWriter
}
