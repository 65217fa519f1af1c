package domain

import (
	"context"
	"time"
)

// AgentIdentity is who the promoter agent records and syncs sales as.
type AgentIdentity struct {
	PromoterID   string
	SessionToken string
	LoggedInAt   time.Time
}

// IdentityStore keeps the last identity obtained from a successful login so
// the agent can start without reaching the sales service.
type IdentityStore interface {
	// Load returns ErrNotFound when the device has never logged in.
	Load(ctx context.Context) (*AgentIdentity, error)
	Save(ctx context.Context, identity *AgentIdentity) error
}
