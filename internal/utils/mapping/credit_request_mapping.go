package mapping

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
)

// ToModelCreditRequest converts a domain CreditRequest to a model CreditRequest.
// The timeline is stored separately and is not part of the row.
func ToModelCreditRequest(d domain.CreditRequest) models.CreditRequest {
	m := models.CreditRequest{
		RequestID:           d.RequestID,
		UserID:              d.UserID,
		InitiatorID:         d.InitiatorID,
		HODID:               d.HODID,
		RequestType:         string(d.Type),
		PolicyID:            d.PolicyID,
		Description:         d.Description,
		BaseAmount:          d.BaseAmount,
		Bonus:               d.Bonus,
		Deductions:          d.Deductions,
		Amount:              d.Amount,
		Currency:            string(d.Currency),
		Status:              string(d.Status),
		RejectionReason:     d.RejectionReason,
		WalletTransactionID: d.WalletTransactionID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	if d.Signature != nil {
		sigID := d.Signature.SignatureID
		signedAt := d.Signature.SignedAt
		m.SignatureID = &sigID
		m.SignedAt = &signedAt
	}
	return m
}

// ToDomainCreditRequest converts a model CreditRequest to a domain CreditRequest
func ToDomainCreditRequest(m models.CreditRequest) domain.CreditRequest {
	d := domain.CreditRequest{
		RequestID:           m.RequestID,
		UserID:              m.UserID,
		InitiatorID:         m.InitiatorID,
		HODID:               m.HODID,
		Type:                domain.CreditRequestType(m.RequestType),
		PolicyID:            m.PolicyID,
		Description:         m.Description,
		BaseAmount:          m.BaseAmount,
		Bonus:               m.Bonus,
		Deductions:          m.Deductions,
		Amount:              m.Amount,
		Currency:            domain.Currency(m.Currency),
		Status:              domain.CreditRequestStatus(m.Status),
		RejectionReason:     m.RejectionReason,
		WalletTransactionID: m.WalletTransactionID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if m.SignatureID != nil {
		sig := domain.SignatureInfo{SignatureID: *m.SignatureID}
		if m.SignedAt != nil {
			sig.SignedAt = *m.SignedAt
		}
		d.Signature = &sig
	}
	return d
}
