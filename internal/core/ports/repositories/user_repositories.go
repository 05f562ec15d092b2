package repositories

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// UserReader reads the user directory.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// InitiatorScopeReader answers whether an initiator may file for an employee.
type InitiatorScopeReader interface {
	// IsInitiatorLinked reports a direct initiator -> employee link.
	IsInitiatorLinked(ctx context.Context, initiatorID, employeeID string) (bool, error)
	// HasPolicyAssignment reports that the initiator is assigned to policyID for employeeID.
	HasPolicyAssignment(ctx context.Context, initiatorID, policyID, employeeID string) (bool, error)
}

// UserWriter persists the few user fields the workflow owns.
type UserWriter interface {
	UpdateUserCurrency(ctx context.Context, userID string, currency domain.Currency) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	InitiatorScopeReader
	UserWriter
}
