package dto

import (
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCreditRequestRequest is submitted by an initiator, HOD or admin on behalf of an employee.
// Currency is never accepted from the client.
type CreateCreditRequestRequest struct {
	UserID      string          `json:"userID" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=freelancer policy"`
	PolicyID    *string         `json:"policyID" binding:"required_if=Type policy"`
	Description string          `json:"description" binding:"max=2000"`
	BaseAmount  decimal.Decimal `json:"baseAmount"`
	Bonus       decimal.Decimal `json:"bonus"`
	Deductions  decimal.Decimal `json:"deductions"`
}

// SignCreditRequestRequest carries the e-signature reference for an in-app signature.
type SignCreditRequestRequest struct {
	SignatureID string `json:"signatureID" binding:"required,max=255"`
}

// RejectCreditRequestRequest carries the human readable rejection reason.
type RejectCreditRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

// ListCreditRequestsParams holds query parameters for listing credit requests.
type ListCreditRequestsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=pending_signature pending_approval pending_employee_approval approved rejected_by_user rejected_by_employee rejected_by_hod"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// CreditRequestResponse is the API view of a credit request.
type CreditRequestResponse struct {
	RequestID           string                  `json:"requestID"`
	UserID              string                  `json:"userID"`
	InitiatorID         string                  `json:"initiatorID"`
	HODID               *string                 `json:"hodID,omitempty"`
	Type                string                  `json:"type"`
	PolicyID            *string                 `json:"policyID,omitempty"`
	Description         string                  `json:"description"`
	BaseAmount          decimal.Decimal         `json:"baseAmount"`
	Bonus               decimal.Decimal         `json:"bonus"`
	Deductions          decimal.Decimal         `json:"deductions"`
	Amount              decimal.Decimal         `json:"amount"`
	Currency            string                  `json:"currency"`
	Status              string                  `json:"status"`
	SignatureID         *string                 `json:"signatureID,omitempty"`
	SignedAt            *time.Time              `json:"signedAt,omitempty"`
	RejectionReason     *string                 `json:"rejectionReason,omitempty"`
	WalletTransactionID *string                 `json:"walletTransactionID,omitempty"`
	Timeline            []TimelineEntryResponse `json:"timeline"`
	CreatedAt           time.Time               `json:"createdAt"`
	CreatedBy           string                  `json:"createdBy"`
	LastUpdatedAt       time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy       string                  `json:"lastUpdatedBy"`
}

// ListCreditRequestsResponse wraps a page of credit requests.
type ListCreditRequestsResponse struct {
	CreditRequests []CreditRequestResponse `json:"creditRequests"`
	NextToken      *string                 `json:"nextToken,omitempty"`
}

// ToCreditRequestResponse converts a domain.CreditRequest to its response DTO.
func ToCreditRequestResponse(r *domain.CreditRequest) CreditRequestResponse {
	resp := CreditRequestResponse{
		RequestID:           r.RequestID,
		UserID:              r.UserID,
		InitiatorID:         r.InitiatorID,
		HODID:               r.HODID,
		Type:                string(r.Type),
		PolicyID:            r.PolicyID,
		Description:         r.Description,
		BaseAmount:          r.BaseAmount,
		Bonus:               r.Bonus,
		Deductions:          r.Deductions,
		Amount:              r.Amount,
		Currency:            string(r.Currency),
		Status:              string(r.Status),
		RejectionReason:     r.RejectionReason,
		WalletTransactionID: r.WalletTransactionID,
		Timeline:            ToTimelineResponses(r.Timeline),
		CreatedAt:           r.CreatedAt,
		CreatedBy:           r.CreatedBy,
		LastUpdatedAt:       r.LastUpdatedAt,
		LastUpdatedBy:       r.LastUpdatedBy,
	}
	if r.Signature != nil {
		resp.SignatureID = &r.Signature.SignatureID
		signedAt := r.Signature.SignedAt
		resp.SignedAt = &signedAt
	}
	return resp
}

// ToListCreditRequestsResponse converts a page of requests.
func ToListCreditRequestsResponse(reqs []domain.CreditRequest, nextToken *string) ListCreditRequestsResponse {
	out := make([]CreditRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = ToCreditRequestResponse(&reqs[i])
	}
	return ListCreditRequestsResponse{CreditRequests: out, NextToken: nextToken}
}
