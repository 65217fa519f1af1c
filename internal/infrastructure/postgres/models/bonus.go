package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BonusSchemeModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	ProductID    string          `gorm:"not null;index"`
	BonusPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	MinQuantity  int             `gorm:"not null"`
	Active       bool            `gorm:"not null"`
	StartDate    *time.Time
	EndDate      *time.Time
}

func (BonusSchemeModel) TableName() string {
	return "bonus_schemes"
}

type MotivationModel struct {
	ID         string `gorm:"primaryKey"`
	Title      string
	BonusExtra decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Active     bool            `gorm:"not null"`
	StartDate  time.Time       `gorm:"not null"`
	EndDate    *time.Time
}

func (MotivationModel) TableName() string {
	return "motivations"
}
