package repository

import (
	"time"

	"gorm.io/gorm"

	"lingohub_backend/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPITokenHash(hash string) (*models.User, error)
	Exists(id uint) (bool, error)
	Update(user *models.User) error
}

// WalletRepository defines the interface for wallet read paths used by the
// HTTP layer. Balance mutation goes exclusively through the billing engine.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)
	ListTransactions(walletID uint, offset, limit int) ([]models.WalletTransaction, error)
	CountTransactions(walletID uint) (int64, error)
}

// SubscriptionRepository defines the interface for subscription reads and the
// non-upgrade lifecycle operations (scheduled cancel, expiry sweep).
type SubscriptionRepository interface {
	FindActiveOrTrialByUserID(userID uint) (*models.Subscription, error)
	ScheduleCancelAtPeriodEnd(userID uint) error
	ExpireDue(now time.Time) (int64, error)
}

// TierRepository defines the interface for tier lookups
type TierRepository interface {
	GetByName(name string) (*models.Tier, error)
	GetByID(id uint) (*models.Tier, error)
	GetAll() ([]models.Tier, error)
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Wallet       WalletRepository
	Subscription SubscriptionRepository
	Tier         TierRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Wallet:       NewWalletRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Tier:         NewTierRepository(db),
	}
}
