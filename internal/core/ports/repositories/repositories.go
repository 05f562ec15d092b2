package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	TxManager      TransactionManager
	UserRepo       UserRepositoryFacade
	CreditRepo     CreditRequestRepositoryFacade
	WalletRepo     WalletRepositoryFacade
	RedemptionRepo RedemptionRepositoryFacade
	TimelineRepo   TimelineRepositoryFacade
	Notifications  NotificationRepository
}
