package mapping

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
)

// ToModelRedemption converts a domain RedemptionRequest to a model RedemptionRequest
func ToModelRedemption(d domain.RedemptionRequest) models.RedemptionRequest {
	return models.RedemptionRequest{
		RedemptionID:         d.RedemptionID,
		UserID:               d.UserID,
		CreditTransactionID:  d.CreditTransactionID,
		DebitTransactionID:   d.DebitTransactionID,
		Amount:               d.Amount,
		Currency:             string(d.Currency),
		Status:               string(d.Status),
		Notes:                d.Notes,
		ProcessedBy:          d.ProcessedBy,
		ProcessedAt:          d.ProcessedAt,
		TransactionReference: d.TransactionReference,
		PaymentNotes:         d.PaymentNotes,
		RejectionReason:      d.RejectionReason,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRedemption converts a model RedemptionRequest to a domain RedemptionRequest
func ToDomainRedemption(m models.RedemptionRequest) domain.RedemptionRequest {
	return domain.RedemptionRequest{
		RedemptionID:         m.RedemptionID,
		UserID:               m.UserID,
		CreditTransactionID:  m.CreditTransactionID,
		DebitTransactionID:   m.DebitTransactionID,
		Amount:               m.Amount,
		Currency:             domain.Currency(m.Currency),
		Status:               domain.RedemptionStatus(m.Status),
		Notes:                m.Notes,
		ProcessedBy:          m.ProcessedBy,
		ProcessedAt:          m.ProcessedAt,
		TransactionReference: m.TransactionReference,
		PaymentNotes:         m.PaymentNotes,
		RejectionReason:      m.RejectionReason,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
