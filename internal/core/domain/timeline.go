package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType names the kind of workflow entity a timeline entry is attached to.
type EntityType string

const (
	EntityCreditRequest     EntityType = "credit_request"
	EntityWalletTransaction EntityType = "wallet_transaction"
	EntityRedemption        EntityType = "redemption_request"
)

// EntityRef identifies one workflow entity.
type EntityRef struct {
	Type EntityType
	ID   string
}

// TimelineStep tags what happened.
type TimelineStep string

const (
	StepCreated            TimelineStep = "created"
	StepSigned             TimelineStep = "signed"
	StepHODApproved        TimelineStep = "hod_approved"
	StepHODRejected        TimelineStep = "hod_rejected"
	StepEmployeeApproved   TimelineStep = "employee_approved"
	StepEmployeeRejected   TimelineStep = "employee_rejected"
	StepUserRejected       TimelineStep = "user_rejected"
	StepCredited           TimelineStep = "credited"
	StepRedemptionRequest  TimelineStep = "redemption_requested"
	StepDebited            TimelineStep = "debited"
	StepProcessing         TimelineStep = "processing"
	StepCompleted          TimelineStep = "completed"
	StepRedemptionRejected TimelineStep = "redemption_rejected"
	StepReversed           TimelineStep = "reversed"
	StepCurrencyReconciled TimelineStep = "currency_reconciled"
)

// TimelineEntry is one immutable audit record.
type TimelineEntry struct {
	EntryID     string         `json:"entryID"`
	Sequence    int64          `json:"sequence"`
	EntityType  EntityType     `json:"entityType"`
	EntityID    string         `json:"entityID"`
	Step        TimelineStep   `json:"step"`
	ActorRole   Role           `json:"actorRole"`
	ActorID     string         `json:"actorID"`
	SignatureID *string        `json:"signatureID,omitempty"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TimelineInput is what a caller supplies; the recorder stamps the rest.
type TimelineInput struct {
	Step        TimelineStep
	Actor       Actor
	SignatureID *string
	Message     string
	Metadata    map[string]any
}

// NewTimelineEntry builds an entry with a fresh id and the given server time.
// Sequence is left zero; storage assigns it.
func NewTimelineEntry(ref EntityRef, in TimelineInput, now time.Time) TimelineEntry {
	var meta map[string]any
	if len(in.Metadata) > 0 {
		meta = make(map[string]any, len(in.Metadata))
		for k, v := range in.Metadata {
			meta[k] = v
		}
	}
	return TimelineEntry{
		EntryID:     uuid.NewString(),
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		Step:        in.Step,
		ActorRole:   in.Actor.Role,
		ActorID:     in.Actor.UserID,
		SignatureID: in.SignatureID,
		Message:     in.Message,
		Metadata:    meta,
		CreatedAt:   now.UTC(),
	}
}

// AppendTimeline returns a new slice with entry at the end. The input slice is left untouched.
func AppendTimeline(existing []TimelineEntry, entry TimelineEntry) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, entry)
}
