package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PendingSaleModel struct {
	ID               string `gorm:"primaryKey"`
	ClientUUID       string `gorm:"uniqueIndex:idx_pending_sales_client_uuid;not null"`
	PromoterID       string `gorm:"not null"`
	ProductID        string `gorm:"not null"`
	ProductVariantID *string
	Quantity         int             `gorm:"not null;check:quantity >= 1"`
	TotalAmount      decimal.Decimal `gorm:"type:text;not null"`
	BonusAmount      decimal.Decimal `gorm:"type:text;not null"`
	BonusExtra       decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	Synced           bool            `gorm:"not null;index:idx_pending_sales_synced"`
	SyncedAt         *time.Time
}

func (PendingSaleModel) TableName() string {
	return "pending_sales"
}
