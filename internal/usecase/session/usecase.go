// Package session exchanges verified Telegram init data for promoter sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/auth/telegram"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoginResult struct {
	Session  *domain.Session
	Promoter *domain.Promoter
}

type SessionUsecase interface {
	Login(ctx context.Context, initData string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type AuthRecorder interface {
	RecordAuth(result string)
}

type DefaultSessionUsecase struct {
	promoterRepo domain.PromoterRepository
	sessionRepo  domain.SessionRepository
	botToken     string
	maxAge       time.Duration
	metrics      AuthRecorder
	logger       *zap.Logger

	now func() time.Time
}

func NewDefaultSessionUsecase(
	promoterRepo domain.PromoterRepository,
	sessionRepo domain.SessionRepository,
	botToken string,
	maxAge time.Duration,
	metrics AuthRecorder,
	logger *zap.Logger,
) *DefaultSessionUsecase {
	return &DefaultSessionUsecase{
		promoterRepo: promoterRepo,
		sessionRepo:  sessionRepo,
		botToken:     botToken,
		maxAge:       maxAge,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Login verifies init data, upserts the promoter by Telegram id and replaces
// the promoter's session with a new token.
func (uc *DefaultSessionUsecase) Login(ctx context.Context, initData string) (*LoginResult, error) {
	now := uc.now()
	data, err := telegram.Verify(initData, uc.botToken, uc.maxAge, now)
	if err != nil {
		uc.record(authResult(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	promoter, err := uc.promoterRepo.UpsertByTelegramID(ctx, &domain.Promoter{
		ID:         uuid.New().String(),
		TelegramID: strconv.FormatInt(data.User.ID, 10),
		FirstName:  data.User.FirstName,
		LastName:   data.User.LastName,
		Username:   data.User.Username,
		Role:       domain.RolePromoter,
	})
	if err != nil {
		uc.record("error")
		return nil, fmt.Errorf("failed to upsert promoter: %w", err)
	}

	session := &domain.Session{
		Token:      telegram.SessionToken(uc.botToken, promoter.ID, now),
		PromoterID: promoter.ID,
		CreatedAt:  now.UTC(),
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		uc.record("error")
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	uc.record("ok")
	uc.logger.Info("promoter logged in",
		zap.String("promoter_id", promoter.ID),
		zap.String("telegram_id", promoter.TelegramID),
	)
	return &LoginResult{Session: session, Promoter: promoter}, nil
}

// Authenticate resolves a session token to its promoter id.
func (uc *DefaultSessionUsecase) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	session, err := uc.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	return session.PromoterID, nil
}

func (uc *DefaultSessionUsecase) record(result string) {
	if uc.metrics != nil {
		uc.metrics.RecordAuth(result)
	}
}

func authResult(err error) string {
	switch {
	case errors.Is(err, telegram.ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, telegram.ErrExpired):
		return "expired"
	default:
		return "malformed"
	}
}
