package billing

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingohub_backend/app/models"
)

// Repository provides the DB operations used by the upgrade engine. The
// instance handed to a Transaction callback is scoped to that transaction;
// LockWallet is only meaningful on such an instance.
type Repository interface {
	UserExists(userID uint) (bool, error)
	TierByName(name string) (*models.Tier, error)
	TierByID(id uint) (*models.Tier, error)
	WalletByUserID(userID uint) (*models.Wallet, error)
	LockWallet(walletID uint) (*models.Wallet, error)
	UpdateWalletBalance(walletID uint, balanceMinor int64) error
	CreateWalletTransaction(txn *models.WalletTransaction) error
	ActiveOrTrialSubscription(userID uint) (*models.Subscription, error)
	CancelEntitledSubscriptions(userID uint) error
	CreateSubscription(sub *models.Subscription) error
	Transaction(ctx context.Context, fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an upgrade-engine repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UserExists(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) TierByName(name string) (*models.Tier, error) {
	var tier models.Tier
	if err := r.db.Where("name = ?", name).First(&tier).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *gormRepository) TierByID(id uint) (*models.Tier, error) {
	var tier models.Tier
	if err := r.db.First(&tier, id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *gormRepository) WalletByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// LockWallet re-reads the wallet row under SELECT ... FOR UPDATE. Concurrent
// upgrades for the same wallet serialize here until the holder commits or
// rolls back.
func (r *gormRepository) LockWallet(walletID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, walletID).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *gormRepository) UpdateWalletBalance(walletID uint, balanceMinor int64) error {
	return r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance_minor", balanceMinor).Error
}

func (r *gormRepository) CreateWalletTransaction(txn *models.WalletTransaction) error {
	return r.db.Create(txn).Error
}

func (r *gormRepository) ActiveOrTrialSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
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

func (r *gormRepository) CancelEntitledSubscriptions(userID uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}).
		Updates(map[string]interface{}{
			"status":               models.SubscriptionStatusCancelled,
			"cancel_at_period_end": false,
		}).Error
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// Transaction runs fn inside a single database transaction; the Repository
// passed to fn is bound to it. A cancelled context rolls the transaction back.
func (r *gormRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
