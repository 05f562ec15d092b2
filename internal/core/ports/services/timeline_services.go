package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// TimelineSvc records and reads audit trails.
type TimelineSvc interface {
	// Append records the same step on every ref, in one call, and returns the stored entries.
	Append(ctx context.Context, in domain.TimelineInput, refs ...domain.EntityRef) ([]domain.TimelineEntry, error)
	List(ctx context.Context, ref domain.EntityRef) ([]domain.TimelineEntry, error)
}
