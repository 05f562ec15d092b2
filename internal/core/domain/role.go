package domain

import (
	"fmt"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
)

// Role is the organizational role supplied by the identity provider.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleInitiator Role = "initiator"
	RoleHOD       Role = "hod"
	RoleAdmin     Role = "admin"
	RoleAccounts  Role = "accounts"
)

// Capabilities is what a role is allowed to do in the workflow.
type Capabilities interface {
	// CanInitiate allows filing credit requests on behalf of someone else.
	CanInitiate() bool
	// CanApprove allows HOD-level approval and rejection.
	CanApprove() bool
	// CanProcessPayouts allows working the redemption queue.
	CanProcessPayouts() bool
	// IsManager decides whether a policy request skips straight to signature.
	IsManager() bool
	// OrgWide lifts per-employee scoping (HOD match, initiator links, ownership of reads).
	OrgWide() bool
}

type employeeRole struct{}

func (employeeRole) CanInitiate() bool       { return false }
func (employeeRole) CanApprove() bool        { return false }
func (employeeRole) CanProcessPayouts() bool { return false }
func (employeeRole) IsManager() bool         { return false }
func (employeeRole) OrgWide() bool           { return false }

type initiatorRole struct{}

func (initiatorRole) CanInitiate() bool       { return true }
func (initiatorRole) CanApprove() bool        { return false }
func (initiatorRole) CanProcessPayouts() bool { return false }
func (initiatorRole) IsManager() bool         { return false }
func (initiatorRole) OrgWide() bool           { return false }

type hodRole struct{}

func (hodRole) CanInitiate() bool       { return true }
func (hodRole) CanApprove() bool        { return true }
func (hodRole) CanProcessPayouts() bool { return false }
func (hodRole) IsManager() bool         { return true }
func (hodRole) OrgWide() bool           { return false }

type adminRole struct{}

func (adminRole) CanInitiate() bool       { return true }
func (adminRole) CanApprove() bool        { return true }
func (adminRole) CanProcessPayouts() bool { return true }
func (adminRole) IsManager() bool         { return true }
func (adminRole) OrgWide() bool           { return true }

type accountsRole struct{}

func (accountsRole) CanInitiate() bool       { return false }
func (accountsRole) CanApprove() bool        { return false }
func (accountsRole) CanProcessPayouts() bool { return true }
func (accountsRole) IsManager() bool         { return false }
func (accountsRole) OrgWide() bool           { return false }

// Capabilities dispatches on the role. Unknown roles are refused.
func (r Role) Capabilities() (Capabilities, error) {
	switch r {
	case RoleEmployee:
		return employeeRole{}, nil
	case RoleInitiator:
		return initiatorRole{}, nil
	case RoleHOD:
		return hodRole{}, nil
	case RoleAdmin:
		return adminRole{}, nil
	case RoleAccounts:
		return accountsRole{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrForbidden, r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := r.Capabilities()
	return err == nil
}

// Actor is the authenticated caller as supplied by the identity layer.
type Actor struct {
	UserID string
	Role   Role
}

// Capabilities is a shorthand for a.Role.Capabilities().
func (a Actor) Capabilities() (Capabilities, error) {
	return a.Role.Capabilities()
}

// CanReadFinance is true for roles that may look at any user's wallet and payouts.
func (a Actor) CanReadFinance() bool {
	caps, err := a.Capabilities()
	if err != nil {
		return false
	}
	return caps.OrgWide() || caps.CanProcessPayouts()
}
