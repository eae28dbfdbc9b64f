package repository

import (
	"gorm.io/gorm"

	"lingohub_backend/app/models"
)

type tierRepository struct {
	db *gorm.DB
}

// NewTierRepository creates a new tier repository instance
func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) GetByName(name string) (*models.Tier, error) {
	var tier models.Tier
	if err := r.db.Where("name = ?", name).First(&tier).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *tierRepository) GetByID(id uint) (*models.Tier, error) {
	var tier models.Tier
	if err := r.db.First(&tier, id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *tierRepository) GetAll() ([]models.Tier, error) {
	var tiers []models.Tier
	err := r.db.Order("order_rank ASC").Find(&tiers).Error
	return tiers, err
}
