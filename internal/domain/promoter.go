package domain

import (
	"context"
	"time"
)

const RolePromoter = "PROMOTER"

type Promoter struct {
	ID         string
	TelegramID string
	FirstName  *string
	LastName   *string
	Username   *string
	Role       string
}

type Session struct {
	Token      string
	PromoterID string
	CreatedAt  time.Time
}

type PromoterRepository interface {
	UpsertByTelegramID(ctx context.Context, promoter *Promoter) (*Promoter, error)
}

type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
}
