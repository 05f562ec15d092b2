package domain_test

import (
	"testing"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditAmounts_Total(t *testing.T) {
	total, err := domain.CreditAmounts{
		BaseAmount: decimal.NewFromInt(100),
		Bonus:      decimal.NewFromInt(20),
		Deductions: decimal.NewFromInt(5),
	}.Total(domain.CurrencyINR)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(115).Equal(total))

	_, err = domain.CreditAmounts{BaseAmount: decimal.NewFromInt(10), Deductions: decimal.NewFromInt(10)}.Total(domain.CurrencyINR)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "zero total")

	_, err = domain.CreditAmounts{BaseAmount: decimal.NewFromInt(10), Bonus: decimal.NewFromInt(-1)}.Total(domain.CurrencyINR)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "negative bonus")

	total, err = domain.CreditAmounts{BaseAmount: decimal.RequireFromString("99.99"), Bonus: decimal.RequireFromString("0.01")}.Total(domain.CurrencyINR)
	require.NoError(t, err)
	assert.Equal(t, "100", total.String())
}

func TestCreditAmounts_TotalRejectsSubMinorUnits(t *testing.T) {
	testCases := []struct {
		name    string
		amounts domain.CreditAmounts
	}{
		{name: "base and deductions below a paisa", amounts: domain.CreditAmounts{BaseAmount: decimal.RequireFromString("1.00005"), Deductions: decimal.RequireFromString("0.00004")}},
		{name: "fractional bonus", amounts: domain.CreditAmounts{BaseAmount: decimal.NewFromInt(10), Bonus: decimal.RequireFromString("0.125")}},
		{name: "fractional deductions", amounts: domain.CreditAmounts{BaseAmount: decimal.NewFromInt(10), Deductions: decimal.RequireFromString("0.001")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.amounts.Total(domain.CurrencyINR)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	total, err := domain.CreditAmounts{BaseAmount: decimal.RequireFromString("10.500"), Bonus: decimal.RequireFromString("0.2500")}.Total(domain.CurrencyUSD)
	require.NoError(t, err, "trailing zeros stay within the minor unit")
	assert.True(t, decimal.RequireFromString("10.75").Equal(total))
}

func TestCreditRequest_AmountConsistent(t *testing.T) {
	req := newRequest(domain.CreditTypeFreelancer, domain.StatusPendingApproval)
	assert.True(t, req.AmountConsistent())
	req.Amount = decimal.NewFromInt(120)
	assert.False(t, req.AmountConsistent())
}

func TestCreditRequest_VisibleTo(t *testing.T) {
	req := newRequest(domain.CreditTypePolicy, domain.StatusPendingApproval)
	assert.True(t, req.VisibleTo(owner))
	assert.True(t, req.VisibleTo(hod))
	assert.True(t, req.VisibleTo(admin))
	assert.True(t, req.VisibleTo(domain.Actor{UserID: initiatorID, Role: domain.RoleInitiator}))
	assert.True(t, req.VisibleTo(domain.Actor{UserID: "acc", Role: domain.RoleAccounts}))
	assert.False(t, req.VisibleTo(stranger))
	assert.False(t, req.VisibleTo(otherHOD))
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusRejectedByHOD.IsTerminal())
	assert.False(t, domain.StatusPendingSignature.IsTerminal())
	assert.True(t, domain.StatusPendingEmployeeApproval.Valid())
	assert.False(t, domain.CreditRequestStatus("draft").Valid())
}
