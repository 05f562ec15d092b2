package mapping

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
)

// ToModelTimelineEntry converts a domain TimelineEntry to a model TimelineEntry
func ToModelTimelineEntry(d domain.TimelineEntry) models.TimelineEntry {
	return models.TimelineEntry{
		Seq:         d.Sequence,
		EntryID:     d.EntryID,
		EntityType:  string(d.EntityType),
		EntityID:    d.EntityID,
		Step:        string(d.Step),
		ActorRole:   string(d.ActorRole),
		ActorID:     d.ActorID,
		SignatureID: d.SignatureID,
		Message:     d.Message,
		Metadata:    d.Metadata,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainTimelineEntry converts a model TimelineEntry to a domain TimelineEntry
func ToDomainTimelineEntry(m models.TimelineEntry) domain.TimelineEntry {
	return domain.TimelineEntry{
		EntryID:     m.EntryID,
		Sequence:    m.Seq,
		EntityType:  domain.EntityType(m.EntityType),
		EntityID:    m.EntityID,
		Step:        domain.TimelineStep(m.Step),
		ActorRole:   domain.Role(m.ActorRole),
		ActorID:     m.ActorID,
		SignatureID: m.SignatureID,
		Message:     m.Message,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}
