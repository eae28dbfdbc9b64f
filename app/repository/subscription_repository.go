package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lingohub_backend/app/models"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindActiveOrTrialByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Tier").
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ScheduleCancelAtPeriodEnd flags the entitling row to lapse at its period
// end. The row stays active until the expiry sweep picks it up, so the
// at-most-one-active invariant is untouched.
func (r *subscriptionRepository) ScheduleCancelAtPeriodEnd(userID uint) error {
	res := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}).
		Updates(map[string]interface{}{
			"cancel_at_period_end": true,
			"auto_renew":           false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpireDue cancels entitling rows whose period has ended and which are not
// set to renew. Returns the number of rows cancelled.
func (r *subscriptionRepository) ExpireDue(now time.Time) (int64, error) {
	res := r.db.Model(&models.Subscription{}).
		Where("status IN ? AND current_period_end <= ? AND (auto_renew = ? OR cancel_at_period_end = ?)",
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}, now, false, true).
		Updates(map[string]interface{}{
			"status":               models.SubscriptionStatusCancelled,
			"cancel_at_period_end": false,
		})
	return res.RowsAffected, res.Error
}
