package repository

import (
	"gorm.io/gorm"

	"lingohub_backend/app/models"
)

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository instance
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	return r.db.Create(wallet).Error
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) ListTransactions(walletID uint, offset, limit int) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

func (r *walletRepository) CountTransactions(walletID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Count(&count).Error
	return count, err
}
