package dto

import (
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRedemptionRequest asks to pay out one wallet credit. Amount defaults to the credit's amount.
type CreateRedemptionRequest struct {
	CreditTransactionID string           `json:"creditTransactionID" binding:"required"`
	Amount              *decimal.Decimal `json:"amount"`
	Notes               string           `json:"notes" binding:"max=2000"`
}

// ProcessRedemptionRequest is filled in by accounts once the payment is made.
type ProcessRedemptionRequest struct {
	TransactionReference string `json:"transactionReference" binding:"required,max=255"`
	PaymentCurrency      string `json:"paymentCurrency" binding:"required,currency"`
	PaymentNotes         string `json:"paymentNotes" binding:"max=2000"`
}

// RejectRedemptionRequest carries the reason a payout was refused.
type RejectRedemptionRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

// ListRedemptionsParams holds query parameters for the redemption queue.
type ListRedemptionsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=pending processing completed rejected"`
	UserID    string  `form:"userID"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// RedemptionResponse is the API view of a redemption request.
type RedemptionResponse struct {
	RedemptionID         string                  `json:"redemptionID"`
	UserID               string                  `json:"userID"`
	CreditTransactionID  string                  `json:"creditTransactionID"`
	DebitTransactionID   *string                 `json:"debitTransactionID,omitempty"`
	Amount               decimal.Decimal         `json:"amount"`
	Currency             string                  `json:"currency"`
	Status               string                  `json:"status"`
	Notes                string                  `json:"notes"`
	ProcessedBy          *string                 `json:"processedBy,omitempty"`
	ProcessedAt          *time.Time              `json:"processedAt,omitempty"`
	TransactionReference *string                 `json:"transactionReference,omitempty"`
	PaymentNotes         *string                 `json:"paymentNotes,omitempty"`
	RejectionReason      *string                 `json:"rejectionReason,omitempty"`
	Timeline             []TimelineEntryResponse `json:"timeline"`
	CreatedAt            time.Time               `json:"createdAt"`
	LastUpdatedAt        time.Time               `json:"lastUpdatedAt"`
}

// ListRedemptionsResponse wraps a page of redemptions.
type ListRedemptionsResponse struct {
	Redemptions []RedemptionResponse `json:"redemptions"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToRedemptionResponse converts a domain.RedemptionRequest.
func ToRedemptionResponse(r *domain.RedemptionRequest) RedemptionResponse {
	return RedemptionResponse{
		RedemptionID:         r.RedemptionID,
		UserID:               r.UserID,
		CreditTransactionID:  r.CreditTransactionID,
		DebitTransactionID:   r.DebitTransactionID,
		Amount:               r.Amount,
		Currency:             string(r.Currency),
		Status:               string(r.Status),
		Notes:                r.Notes,
		ProcessedBy:          r.ProcessedBy,
		ProcessedAt:          r.ProcessedAt,
		TransactionReference: r.TransactionReference,
		PaymentNotes:         r.PaymentNotes,
		RejectionReason:      r.RejectionReason,
		Timeline:             ToTimelineResponses(r.Timeline),
		CreatedAt:            r.CreatedAt,
		LastUpdatedAt:        r.LastUpdatedAt,
	}
}

// ToListRedemptionsResponse converts a page of redemptions.
func ToListRedemptionsResponse(rs []domain.RedemptionRequest, nextToken *string) ListRedemptionsResponse {
	out := make([]RedemptionResponse, len(rs))
	for i := range rs {
		out[i] = ToRedemptionResponse(&rs[i])
	}
	return ListRedemptionsResponse{Redemptions: out, NextToken: nextToken}
}
