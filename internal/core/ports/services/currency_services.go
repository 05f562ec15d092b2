package services

import (
	"context"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
)

// CurrencyPolicySvc is the single place a user's payout currency is decided.
type CurrencyPolicySvc interface {
	// CurrencyFor derives the canonical currency from the user's classification.
	CurrencyFor(user domain.User) (domain.Currency, error)

	// ExpectedCurrency loads the user and derives their canonical currency.
	ExpectedCurrency(ctx context.Context, userID string) (domain.Currency, error)

	// Reconcile re-derives the canonical currency and persists it when it changed.
	Reconcile(ctx context.Context, userID string) (domain.Currency, bool, error)

	// ReconcileUser is Reconcile for an org-wide actor.
	ReconcileUser(ctx context.Context, actor domain.Actor, userID string) (domain.Currency, bool, error)

	// ValidatePaymentCurrency parses provided and fails if it differs from expected.
	ValidatePaymentCurrency(expected domain.Currency, provided string) (domain.Currency, error)

	SupportedCurrencies() []domain.Currency
}
