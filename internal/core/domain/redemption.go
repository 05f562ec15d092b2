package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RedemptionStatus is the lifecycle state of a payout request.
type RedemptionStatus string

const (
	RedemptionPending    RedemptionStatus = "pending"
	RedemptionProcessing RedemptionStatus = "processing"
	RedemptionCompleted  RedemptionStatus = "completed"
	RedemptionRejected   RedemptionStatus = "rejected"
)

var redemptionTransitions = map[RedemptionStatus][]RedemptionStatus{
	RedemptionPending:    {RedemptionProcessing, RedemptionCompleted, RedemptionRejected},
	RedemptionProcessing: {RedemptionCompleted, RedemptionRejected},
}

// Valid reports whether s is a known status.
func (s RedemptionStatus) Valid() bool {
	switch s {
	case RedemptionPending, RedemptionProcessing, RedemptionCompleted, RedemptionRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the request is finished.
func (s RedemptionStatus) IsTerminal() bool {
	return s == RedemptionCompleted || s == RedemptionRejected
}

// CheckRedemptionTransition returns a precondition error unless from -> to is legal.
func CheckRedemptionTransition(from, to RedemptionStatus) error {
	for _, allowed := range redemptionTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: redemption is already %s", apperrors.ErrPrecondition, from)
	}
	return fmt.Errorf("%w: redemption cannot move from %s to %s", apperrors.ErrPrecondition, from, to)
}

// RedemptionRequest converts one wallet credit into a payout.
type RedemptionRequest struct {
	RedemptionID         string           `json:"redemptionID"`
	UserID               string           `json:"userID"`
	CreditTransactionID  string           `json:"creditTransactionID"`
	DebitTransactionID   *string          `json:"debitTransactionID,omitempty"`
	Amount               decimal.Decimal  `json:"amount"`
	Currency             Currency         `json:"currency"`
	Status               RedemptionStatus `json:"status"`
	Notes                string           `json:"notes"`
	ProcessedBy          *string          `json:"processedBy,omitempty"`
	ProcessedAt          *time.Time       `json:"processedAt,omitempty"`
	TransactionReference *string          `json:"transactionReference,omitempty"`
	PaymentNotes         *string          `json:"paymentNotes,omitempty"`
	RejectionReason      *string          `json:"rejectionReason,omitempty"`
	Timeline             []TimelineEntry  `json:"timeline,omitempty"`
	AuditFields
}

// RedemptionStatusUpdate is a compare-and-set on a redemption's status plus the metadata it stamps.
type RedemptionStatusUpdate struct {
	RedemptionID         string
	From                 RedemptionStatus
	To                   RedemptionStatus
	Currency             *Currency
	ProcessedBy          *string
	ProcessedAt          *time.Time
	TransactionReference *string
	PaymentNotes         *string
	RejectionReason      *string
	UpdatedBy            string
	UpdatedAt            time.Time
}

// RedemptionFilter narrows queue queries.
type RedemptionFilter struct {
	UserID *string
	Status *RedemptionStatus
}

// RedemptionProof is the data a payout proof document is rendered from.
type RedemptionProof struct {
	Redemption RedemptionRequest
	Employee   User
	Credit     WalletTransaction
	Timeline   []TimelineEntry
}
