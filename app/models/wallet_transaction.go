package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TransactionTypeDeposit      = "deposit"
	TransactionTypePurchase     = "purchase"
	TransactionTypeSubscription = "subscription"
	TransactionTypeRefund       = "refund"
)

const (
	TransactionStatusCompleted = "completed"
	TransactionStatusReversed  = "reversed"
)

// TransactionMetadata is the structured audit payload recorded with every
// subscription debit so a charge can be explained or reversed later.
type TransactionMetadata struct {
	TierName            string `json:"tier_name,omitempty"`
	BillingCycle        string `json:"billing_cycle,omitempty"`
	PriceUSDCents       int64  `json:"price_usd_cents,omitempty"`
	AmountDeductedMinor int64  `json:"amount_deducted,omitempty"`
	Currency            string `json:"currency,omitempty"`
}

// WalletTransaction is an append-only ledger row. Amounts are signed minor
// units: deposits positive, debits negative. Summing AmountMinor over a
// wallet's rows in creation order must reproduce the wallet balance exactly.
type WalletTransaction struct {
	ID                 uint                                    `gorm:"primaryKey" json:"id"`
	WalletID           uint                                    `gorm:"not null;index" json:"wallet_id"`
	Reference          string                                  `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	Type               string                                  `gorm:"type:varchar(20);not null;index" json:"type"`
	AmountMinor        int64                                   `gorm:"not null" json:"amount_minor"`
	BalanceBeforeMinor int64                                   `gorm:"not null" json:"balance_before_minor"`
	BalanceAfterMinor  int64                                   `gorm:"not null" json:"balance_after_minor"`
	Status             string                                  `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Description        string                                  `gorm:"type:varchar(255)" json:"description"`
	Metadata           datatypes.JSONType[TransactionMetadata] `json:"metadata"`
	CreatedAt          time.Time                               `gorm:"autoCreateTime;index" json:"created_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
