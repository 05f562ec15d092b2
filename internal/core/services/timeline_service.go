package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
)

type timelineService struct {
	BaseService
	repo portsrepo.TimelineRepositoryFacade
}

// NewTimelineService creates the audit trail recorder.
func NewTimelineService(repo portsrepo.TimelineRepositoryFacade) portssvc.TimelineSvc {
	return &timelineService{repo: repo}
}

var _ portssvc.TimelineSvc = (*timelineService)(nil)

// Append builds one entry per ref with a single server timestamp and inserts them together.
// When ctx carries a transaction the entries commit or roll back with it.
func (s *timelineService) Append(ctx context.Context, in domain.TimelineInput, refs ...domain.EntityRef) ([]domain.TimelineEntry, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: timeline entry needs at least one entity", apperrors.ErrValidation)
	}
	if in.Step == "" {
		return nil, fmt.Errorf("%w: timeline step is required", apperrors.ErrValidation)
	}
	if in.Actor.UserID == "" || in.Actor.Role == "" {
		return nil, fmt.Errorf("%w: timeline actor is required", apperrors.ErrValidation)
	}

	now := nowUTC()
	entries := make([]domain.TimelineEntry, 0, len(refs))
	for _, ref := range refs {
		if ref.ID == "" {
			return nil, fmt.Errorf("%w: timeline entity id is required", apperrors.ErrValidation)
		}
		entries = append(entries, domain.NewTimelineEntry(ref, in, now))
	}

	stored, err := s.repo.InsertEntries(ctx, entries)
	if err != nil {
		s.LogError(ctx, err, "Failed to append timeline entries",
			slog.String("step", string(in.Step)),
			slog.Int("entities", len(refs)))
		return nil, err
	}
	return stored, nil
}

func (s *timelineService) List(ctx context.Context, ref domain.EntityRef) ([]domain.TimelineEntry, error) {
	entries, err := s.repo.ListEntries(ctx, ref)
	if err != nil {
		s.LogError(ctx, err, "Failed to list timeline",
			slog.String("entity_type", string(ref.Type)),
			slog.String("entity_id", ref.ID))
		return nil, err
	}
	return entries, nil
}
