package constants

// Static route constants
const (
	APIRoute     = "/api"
	MetricsRoute = "/metrics"

	TiersRoute              = "/tiers"
	WalletRoute             = "/wallet"
	WalletTransactionsRoute = "/wallet/transactions"
	MySubscriptionRoute     = "/subscriptions/me"
	UpgradeRoute            = "/subscriptions/upgrade"
	UpgradeStatsRoute       = "/stats/upgrades"
)
