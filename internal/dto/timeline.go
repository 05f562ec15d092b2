package dto

import (
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// TimelineEntryResponse is one audit record as shown to staff and employees.
type TimelineEntryResponse struct {
	Sequence    int64          `json:"sequence"`
	Step        string         `json:"step"`
	ActorRole   string         `json:"actorRole"`
	ActorID     string         `json:"actorID"`
	SignatureID *string        `json:"signatureID,omitempty"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToTimelineResponses converts domain entries preserving their order.
func ToTimelineResponses(entries []domain.TimelineEntry) []TimelineEntryResponse {
	out := make([]TimelineEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = TimelineEntryResponse{
			Sequence:    e.Sequence,
			Step:        string(e.Step),
			ActorRole:   string(e.ActorRole),
			ActorID:     e.ActorID,
			SignatureID: e.SignatureID,
			Message:     e.Message,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out
}
