package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
)

type currencyPolicyService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewCurrencyPolicyService creates the single authority on payout currencies.
func NewCurrencyPolicyService(userRepo portsrepo.UserRepositoryFacade) portssvc.CurrencyPolicySvc {
	return &currencyPolicyService{userRepo: userRepo}
}

var _ portssvc.CurrencyPolicySvc = (*currencyPolicyService)(nil)

// CurrencyFor ignores whatever currency is stored on the user and derives it from the classification.
func (s *currencyPolicyService) CurrencyFor(user domain.User) (domain.Currency, error) {
	return domain.CurrencyForClass(user.Classification)
}

func (s *currencyPolicyService) ExpectedCurrency(ctx context.Context, userID string) (domain.Currency, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.CurrencyFor(*user)
}

func (s *currencyPolicyService) Reconcile(ctx context.Context, userID string) (domain.Currency, bool, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	expected, err := s.CurrencyFor(*user)
	if err != nil {
		return "", false, err
	}
	if user.Currency == expected {
		return expected, false, nil
	}

	if err := s.userRepo.UpdateUserCurrency(ctx, userID, expected); err != nil {
		s.LogError(ctx, err, "Failed to persist reconciled currency", slog.String("user_id", userID))
		return "", false, err
	}
	s.LogInfo(ctx, "User currency reconciled",
		slog.String("user_id", userID),
		slog.String("from", string(user.Currency)),
		slog.String("to", string(expected)))
	return expected, true, nil
}

func (s *currencyPolicyService) ReconcileUser(ctx context.Context, actor domain.Actor, userID string) (domain.Currency, bool, error) {
	caps, err := actor.Capabilities()
	if err != nil {
		return "", false, err
	}
	if !caps.OrgWide() && !caps.CanProcessPayouts() {
		return "", false, fmt.Errorf("%w: role %s cannot reconcile currencies", apperrors.ErrForbidden, actor.Role)
	}
	return s.Reconcile(ctx, userID)
}

func (s *currencyPolicyService) ValidatePaymentCurrency(expected domain.Currency, provided string) (domain.Currency, error) {
	got, err := domain.ParseCurrency(provided)
	if err != nil {
		return "", err
	}
	if got != expected {
		return "", fmt.Errorf("%w: payment currency %s does not match the employee's currency %s", apperrors.ErrValidation, got, expected)
	}
	return got, nil
}

func (s *currencyPolicyService) SupportedCurrencies() []domain.Currency {
	return domain.SupportedCurrencies()
}
