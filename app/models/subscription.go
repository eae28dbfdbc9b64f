package models

import "time"

const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// Subscription is one entitlement period for a user. Historical rows are kept;
// at most one row per user may be in status active or trial at any time, which
// the upgrade path enforces and a partial unique index backs (see migrations).
type Subscription struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	TierID             uint      `gorm:"not null;index" json:"tier_id"`
	Status             string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	BillingCycle       string    `gorm:"type:varchar(10);not null;default:'monthly'" json:"billing_cycle"`
	CurrentPeriodStart time.Time `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time `gorm:"not null;index" json:"current_period_end"`
	AutoRenew          bool      `gorm:"not null;default:true" json:"auto_renew"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Tier Tier `gorm:"foreignKey:TierID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsEntitling reports whether the row currently grants access.
func (s *Subscription) IsEntitling() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrial
}

// IsExpired reports whether the paid-for period has already ended.
func (s *Subscription) IsExpired(now time.Time) bool {
	return !s.CurrentPeriodEnd.After(now)
}
