package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	ClientUUID       string `gorm:"type:uuid;not null;uniqueIndex:sales_client_uuid_key"`
	PromoterID       string `gorm:"not null;index"`
	ProductID        string `gorm:"not null"`
	ProductVariantID *string
	Quantity         int             `gorm:"not null"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BonusAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BonusExtra       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	ReceivedAt       time.Time       `gorm:"not null"`
}

func (SaleModel) TableName() string {
	return "sales"
}
