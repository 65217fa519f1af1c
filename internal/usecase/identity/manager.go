// Package identity keeps the promoter agent's login state: who sales are
// recorded as and which session token the sync uses.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"go.uber.org/zap"
)

var ErrNoInitData = errors.New("no telegram init data configured")

type Authenticator interface {
	Login(ctx context.Context, initData string) (*domain.AgentIdentity, error)
}

type TokenSetter interface {
	SetSessionToken(token string)
}

type Config struct {
	// InitData enables Telegram login. Without it the configured identity is
	// used as is and never refreshed.
	InitData     string
	PromoterID   string
	SessionToken string
}

type Manager struct {
	auth   Authenticator
	tokens TokenSetter
	store  domain.IdentityStore
	cfg    Config
	logger *zap.Logger

	loginMu sync.Mutex

	mu      sync.RWMutex
	current domain.AgentIdentity
	stale   bool
}

func NewManager(auth Authenticator, tokens TokenSetter, store domain.IdentityStore, cfg Config, logger *zap.Logger) *Manager {
	return &Manager{
		auth:   auth,
		tokens: tokens,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Resolve settles the identity at startup. With init data it logs in; when
// the service cannot be reached it falls back to the identity of the last
// successful login, then to the configured one, and leaves the identity
// stale so a later Refresh retries. Only a missing configuration is an error.
func (m *Manager) Resolve(ctx context.Context) error {
	if m.cfg.InitData == "" {
		if m.cfg.PromoterID == "" {
			return errors.New("identity.promoter_id or identity.init_data is required")
		}
		m.set(domain.AgentIdentity{PromoterID: m.cfg.PromoterID, SessionToken: m.cfg.SessionToken}, false)
		return nil
	}

	err := m.Refresh(ctx)
	if err == nil {
		return nil
	}
	m.logger.Warn("telegram login failed, starting with the last known identity", zap.Error(err))

	stored, loadErr := m.store.Load(ctx)
	switch {
	case loadErr == nil:
		m.set(*stored, true)
		m.logger.Info("using stored identity", zap.String("promoter_id", stored.PromoterID))
	case !errors.Is(loadErr, domain.ErrNotFound):
		return fmt.Errorf("failed to load stored identity: %w", loadErr)
	case m.cfg.PromoterID != "":
		m.set(domain.AgentIdentity{PromoterID: m.cfg.PromoterID, SessionToken: m.cfg.SessionToken}, true)
	default:
		m.set(domain.AgentIdentity{}, true)
		m.logger.Warn("no identity yet, sales are refused until the first login succeeds")
	}
	return nil
}

// Refresh logs in again with the configured init data and persists the
// result. On failure the previous identity stays in use.
func (m *Manager) Refresh(ctx context.Context) error {
	if m.cfg.InitData == "" {
		return ErrNoInitData
	}
	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	identity, err := m.auth.Login(ctx, m.cfg.InitData)
	if err != nil {
		m.markStale()
		return fmt.Errorf("telegram login: %w", err)
	}
	if prev := m.PromoterID(); prev != "" && prev != identity.PromoterID {
		m.logger.Warn("promoter changed after login",
			zap.String("previous", prev),
			zap.String("promoter_id", identity.PromoterID),
		)
	}
	if err := m.store.Save(ctx, identity); err != nil {
		m.logger.Warn("failed to persist identity", zap.Error(err))
	}
	m.set(*identity, false)
	m.logger.Info("promoter authenticated", zap.String("promoter_id", identity.PromoterID))
	return nil
}

// PromoterID is empty until some identity is known.
func (m *Manager) PromoterID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.PromoterID
}

// Stale reports whether the identity in use did not come from a login in
// this process, or the service has since rejected its token.
func (m *Manager) Stale() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stale
}

func (m *Manager) set(identity domain.AgentIdentity, stale bool) {
	m.mu.Lock()
	m.current = identity
	m.stale = stale
	m.mu.Unlock()
	m.tokens.SetSessionToken(identity.SessionToken)
}

func (m *Manager) markStale() {
	m.mu.Lock()
	m.stale = true
	m.mu.Unlock()
}
