package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CreditRequestType distinguishes reusable policy incentives from ad hoc freelancer amounts.
type CreditRequestType string

const (
	CreditTypeFreelancer CreditRequestType = "freelancer"
	CreditTypePolicy     CreditRequestType = "policy"
)

// Valid reports whether t is a known type.
func (t CreditRequestType) Valid() bool {
	return t == CreditTypeFreelancer || t == CreditTypePolicy
}

// CreditRequestStatus is the lifecycle state of a credit request.
type CreditRequestStatus string

const (
	StatusPendingSignature        CreditRequestStatus = "pending_signature"
	StatusPendingApproval         CreditRequestStatus = "pending_approval"
	StatusPendingEmployeeApproval CreditRequestStatus = "pending_employee_approval"
	StatusApproved                CreditRequestStatus = "approved"
	StatusRejectedByUser          CreditRequestStatus = "rejected_by_user"
	StatusRejectedByEmployee      CreditRequestStatus = "rejected_by_employee"
	StatusRejectedByHOD           CreditRequestStatus = "rejected_by_hod"
)

// IsTerminal reports whether no further transitions are possible.
func (s CreditRequestStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejectedByUser, StatusRejectedByEmployee, StatusRejectedByHOD:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s CreditRequestStatus) Valid() bool {
	switch s {
	case StatusPendingSignature, StatusPendingApproval, StatusPendingEmployeeApproval:
		return true
	}
	return s.IsTerminal()
}

// SignatureInfo records the e-signature that moved a policy request out of pending_signature.
type SignatureInfo struct {
	SignatureID string    `json:"signatureID"`
	SignedAt    time.Time `json:"signedAt"`
}

// CreditRequest is a claim for incentive credit moving through the approval chain.
type CreditRequest struct {
	RequestID           string              `json:"requestID"`
	UserID              string              `json:"userID"`
	InitiatorID         string              `json:"initiatorID"`
	HODID               *string             `json:"hodID,omitempty"`
	Type                CreditRequestType   `json:"type"`
	PolicyID            *string             `json:"policyID,omitempty"`
	Description         string              `json:"description"`
	BaseAmount          decimal.Decimal     `json:"baseAmount"`
	Bonus               decimal.Decimal     `json:"bonus"`
	Deductions          decimal.Decimal     `json:"deductions"`
	Amount              decimal.Decimal     `json:"amount"`
	Currency            Currency            `json:"currency"`
	Status              CreditRequestStatus `json:"status"`
	Signature           *SignatureInfo      `json:"signature,omitempty"`
	RejectionReason     *string             `json:"rejectionReason,omitempty"`
	WalletTransactionID *string             `json:"walletTransactionID,omitempty"`
	Timeline            []TimelineEntry     `json:"timeline,omitempty"`
	AuditFields
}

// CreditAmounts is the breakdown a request amount is derived from.
type CreditAmounts struct {
	BaseAmount decimal.Decimal
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
}

// Total returns base + bonus - deductions. It rejects negative components, components
// finer than the currency's minor unit, and a non-positive total.
func (a CreditAmounts) Total(currency Currency) (decimal.Decimal, error) {
	if a.BaseAmount.IsNegative() || a.Bonus.IsNegative() || a.Deductions.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: base amount, bonus and deductions must not be negative", apperrors.ErrValidation)
	}
	for _, part := range []decimal.Decimal{a.BaseAmount, a.Bonus, a.Deductions} {
		if err := currency.CheckScale(part); err != nil {
			return decimal.Zero, err
		}
	}
	total := a.BaseAmount.Add(a.Bonus).Sub(a.Deductions)
	if !total.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: credit amount must be greater than zero", apperrors.ErrValidation)
	}
	return total, nil
}

// AmountConsistent checks amount == base + bonus - deductions.
func (r *CreditRequest) AmountConsistent() bool {
	return r.Amount.Equal(r.BaseAmount.Add(r.Bonus).Sub(r.Deductions))
}

// VisibleTo reports whether the actor may read this request.
func (r *CreditRequest) VisibleTo(actor Actor) bool {
	caps, err := actor.Capabilities()
	if err != nil {
		return false
	}
	if caps.OrgWide() || caps.CanProcessPayouts() {
		return true
	}
	if actor.UserID == r.UserID || actor.UserID == r.InitiatorID {
		return true
	}
	return r.HODID != nil && *r.HODID == actor.UserID
}

// CreditRequestFilter narrows list queries. Nil fields are ignored. The party fields
// (UserID, InitiatorID, HODID) are OR-ed so one query returns everything an actor is part of.
type CreditRequestFilter struct {
	UserID      *string
	InitiatorID *string
	HODID       *string
	Status      *CreditRequestStatus
}
