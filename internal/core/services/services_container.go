package services

import (
	portsrepo "github.com/SscSPs/incentive_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// mailer and renderer may be nil; email and proof documents are then skipped.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, mailer portssvc.Mailer, renderer portssvc.ProofRenderer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Leaves first: the timeline and currency policy have no service dependencies
	container.Timeline = NewTimelineService(repos.TimelineRepo)
	container.Currency = NewCurrencyPolicyService(repos.UserRepo)
	container.Wallet = NewWalletService(repos.WalletRepo, container.Currency)

	notifier := NewNotificationService(repos.Notifications, repos.UserRepo, mailer)

	container.CreditRequest = NewCreditRequestService(
		repos.TxManager,
		repos.CreditRepo,
		repos.UserRepo,
		container.Wallet,
		container.Currency,
		container.Timeline,
		WithCreditNotifier(notifier),
		WithCreditFrontendURL(cfg.FrontendBaseURL),
	)

	redemptionOptions := []RedemptionOption{
		WithRedemptionNotifier(notifier),
		WithRedemptionFrontendURL(cfg.FrontendBaseURL),
	}
	if mailer != nil {
		redemptionOptions = append(redemptionOptions, WithProofMail(mailer, renderer, cfg.AccountsNotifyEmail))
	}
	container.Redemption = NewRedemptionService(
		repos.TxManager,
		repos.RedemptionRepo,
		repos.WalletRepo,
		repos.UserRepo,
		container.Wallet,
		container.Currency,
		container.Timeline,
		redemptionOptions...,
	)

	return container
}
