package models

import "time"

type PromoterModel struct {
	ID         string `gorm:"primaryKey"`
	TelegramID string `gorm:"not null;uniqueIndex"`
	FirstName  *string
	LastName   *string
	Username   *string
	Role       string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PromoterModel) TableName() string {
	return "promoters"
}

// SessionModel keeps one session per promoter; a new login replaces the token.
type SessionModel struct {
	PromoterID string    `gorm:"primaryKey"`
	Token      string    `gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (SessionModel) TableName() string {
	return "sessions"
}
