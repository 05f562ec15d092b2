package mapping

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/SscSPs/incentive_wallet_app/internal/models"
)

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		Role:           domain.Role(m.Role),
		HODID:          m.HODID,
		EmploymentType: domain.EmploymentType(m.EmploymentType),
		Classification: domain.EmploymentClass(m.Classification),
		Currency:       domain.Currency(m.Currency),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
