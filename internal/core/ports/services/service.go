package services

// ServiceContainer holds instances of all the application services.
// Handlers only ever see these interfaces.
type ServiceContainer struct {
	CreditRequest CreditRequestSvcFacade
	Wallet        WalletSvcFacade
	Redemption    RedemptionSvcFacade
	Timeline      TimelineSvc
	Currency      CurrencyPolicySvc
}
