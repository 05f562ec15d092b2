package domain_test

import (
	"testing"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role                                          domain.Role
		initiate, approve, payouts, manager, orgWide bool
	}{
		{domain.RoleEmployee, false, false, false, false, false},
		{domain.RoleInitiator, true, false, false, false, false},
		{domain.RoleHOD, true, true, false, true, false},
		{domain.RoleAdmin, true, true, true, true, true},
		{domain.RoleAccounts, false, false, true, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			caps, err := tt.role.Capabilities()
			require.NoError(t, err)
			assert.Equal(t, tt.initiate, caps.CanInitiate())
			assert.Equal(t, tt.approve, caps.CanApprove())
			assert.Equal(t, tt.payouts, caps.CanProcessPayouts())
			assert.Equal(t, tt.manager, caps.IsManager())
			assert.Equal(t, tt.orgWide, caps.OrgWide())
		})
	}

	_, err := domain.Role("superuser").Capabilities()
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.False(t, domain.Role("").Valid())
}

func TestActor_CanReadFinance(t *testing.T) {
	assert.True(t, domain.Actor{Role: domain.RoleAccounts}.CanReadFinance())
	assert.True(t, domain.Actor{Role: domain.RoleAdmin}.CanReadFinance())
	assert.False(t, domain.Actor{Role: domain.RoleHOD}.CanReadFinance())
	assert.False(t, domain.Actor{Role: "nope"}.CanReadFinance())
}
