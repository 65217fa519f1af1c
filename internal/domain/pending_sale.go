package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PendingSale is a sale captured on the device and not yet confirmed by the
// sales service. ClientUUID is the idempotency key the service deduplicates on.
type PendingSale struct {
	ID               string
	ClientUUID       string
	PromoterID       string
	ProductID        string
	ProductVariantID *string
	Quantity         int
	TotalAmount      decimal.Decimal
	BonusAmount      decimal.Decimal
	BonusExtra       decimal.Decimal
	CreatedAt        time.Time

	// Synced only ever moves from false to true
	Synced   bool
	SyncedAt *time.Time
}

// SaleQueue is the on-device durable queue of captured sales.
type SaleQueue interface {
	// Save persists a new sale with Synced=false. A sale whose ClientUUID is
	// already queued is accepted as a no-op.
	Save(ctx context.Context, sale *PendingSale) error
	ListPending(ctx context.Context) ([]*PendingSale, error)
	MarkSynced(ctx context.Context, id string) error
	// Delete removes a synced sale. Unsynced sales are refused with ErrSaleNotSynced.
	Delete(ctx context.Context, id string) error
	CountPending(ctx context.Context) (int64, error)
	PurgeSynced(ctx context.Context, olderThan time.Time) (int64, error)
}

// RemoteSaleRepository is the device's view of the sales service.
type RemoteSaleRepository interface {
	Insert(ctx context.Context, sale *PendingSale) error
}
