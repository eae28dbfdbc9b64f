package billing

import (
	"time"

	"lingohub_backend/app/models"
)

// UpgradeResult is returned after a committed upgrade transaction.
type UpgradeResult struct {
	TierName        string
	TierDisplayName string
	Features        models.TierFeatures
	BillingCycle    string
	AmountMinor     int64
	Currency        string
	NewBalanceMinor int64
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

// Converter converts fixed-point amounts between currencies. Satisfied by
// currency.Converter.
type Converter interface {
	Convert(amountMinor int64, from, to string) (int64, error)
}
