package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BonusSchemeModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	ProductID    string          `gorm:"index:idx_scheme_snapshots_product"`
	BonusPercent decimal.Decimal `gorm:"type:text;not null"`
	MinQuantity  int
	Active       bool
	StartDate    *time.Time
	EndDate      *time.Time
}

func (BonusSchemeModel) TableName() string {
	return "bonus_scheme_snapshots"
}

type MotivationModel struct {
	ID         string `gorm:"primaryKey"`
	Title      string
	BonusExtra decimal.Decimal `gorm:"type:text;not null"`
	Active     bool
	StartDate  time.Time
	EndDate    *time.Time
}

func (MotivationModel) TableName() string {
	return "motivation_snapshots"
}
