package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	WalletStatusActive = "active"
	WalletStatusFrozen = "frozen"
	WalletStatusClosed = "closed"
)

// Supported wallet currencies (ISO 4217).
const (
	CurrencyUSD = "USD"
	CurrencyVND = "VND"
)

// Wallet holds a user's stored-value balance in integer minor units
// (cents for USD, dong for VND). One wallet per user; the balance is only
// ever mutated inside a locked database transaction.
type Wallet struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceMinor int64          `gorm:"not null;default:0" json:"balance_minor"`
	Currency     string         `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
