package billing

import (
	"time"

	"lingohub_backend/app/models"
)

// Provisioner computes billing periods and writes subscription rows. Writes go
// through the repository it was constructed with, so inside a Transaction
// callback they share the caller's transaction.
type Provisioner struct {
	repo Repository
}

func NewProvisioner(repo Repository) *Provisioner {
	return &Provisioner{repo: repo}
}

// FindActiveOrTrial returns the user's entitling subscription, or nil.
func (p *Provisioner) FindActiveOrTrial(userID uint) (*models.Subscription, error) {
	return p.repo.ActiveOrTrialSubscription(userID)
}

// CancelActive cancels any active or trial row for the user and clears a
// pending cancel-at-period-end flag.
func (p *Provisioner) CancelActive(userID uint) error {
	return p.repo.CancelEntitledSubscriptions(userID)
}

// InsertActive creates the new entitling row.
func (p *Provisioner) InsertActive(userID, tierID uint, billingCycle string, start, end time.Time) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:             userID,
		TierID:             tierID,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       billingCycle,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		AutoRenew:          true,
	}
	if err := p.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ComputePeriod determines the new billing period. The period starts now,
// except when the user renews the same tier before the current period runs
// out: then the new period stacks onto the old one's end so no paid-for time
// is lost. A tier change always starts immediately.
func ComputePeriod(existing *models.Subscription, targetTierID uint, billingCycle string, now time.Time) (time.Time, time.Time) {
	start := now
	if existing != nil && !existing.IsExpired(now) && existing.TierID == targetTierID {
		start = existing.CurrentPeriodEnd
	}

	var end time.Time
	if billingCycle == models.BillingCycleYearly {
		end = start.AddDate(1, 0, 0)
	} else {
		end = start.AddDate(0, 1, 0)
	}
	return start, end
}
