package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tier names known to the platform. Rows are seeded at deploy time and are
// effectively immutable afterwards.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierTeam       = "team"
	TierEnterprise = "enterprise"
)

// TierFeatures is the typed feature set attached to a tier. It is stored as a
// JSON column but never handled as an untyped map.
type TierFeatures struct {
	QueriesPerDay   int  `json:"queries_per_day"`
	AdvancedRAG     bool `json:"advanced_rag"`
	FileUploadMB    int  `json:"file_upload_mb"`
	ListeningLabs   bool `json:"listening_labs"`
	WritingFeedback bool `json:"writing_feedback"`
	PrioritySupport bool `json:"priority_support"`
}

// Tier is a subscription plan with USD fixed-point pricing in cents.
// A yearly price of 0 means "no dedicated yearly price"; callers fall back to
// twelve monthly payments.
type Tier struct {
	ID                uint                                 `gorm:"primaryKey" json:"id"`
	Name              string                               `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	DisplayName       string                               `gorm:"type:varchar(100);not null" json:"display_name"`
	PriceMonthlyCents int64                                `gorm:"not null;default:0" json:"price_monthly_cents"`
	PriceYearlyCents  int64                                `gorm:"not null;default:0" json:"price_yearly_cents"`
	Features          datatypes.JSONType[TierFeatures]     `json:"features"`
	OrderRank         int                                  `gorm:"not null;default:0" json:"order_rank"`
	CreatedAt         time.Time                            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time                            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tier) TableName() string {
	return "tiers"
}
