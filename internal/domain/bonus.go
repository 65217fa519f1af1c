package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BonusScheme struct {
	ID           string
	Name         string
	ProductID    string
	BonusPercent decimal.Decimal
	MinQuantity  int
	Active       bool
	StartDate    *time.Time
	EndDate      *time.Time
}

type Motivation struct {
	ID         string
	Title      string
	BonusExtra decimal.Decimal
	Active     bool
	StartDate  time.Time
	EndDate    *time.Time
}

// SnapshotStore keeps the last bonus snapshot on the device so bonuses can be
// computed while offline.
type SnapshotStore interface {
	ReplaceSchemes(ctx context.Context, schemes []*BonusScheme) error
	ReplaceMotivations(ctx context.Context, motivations []*Motivation) error
	Schemes(ctx context.Context, productID string) ([]*BonusScheme, error)
	Motivations(ctx context.Context) ([]*Motivation, error)
}

// SnapshotSource fetches fresh bonus snapshots from the sales service.
type SnapshotSource interface {
	FetchSchemes(ctx context.Context) ([]*BonusScheme, error)
	FetchMotivations(ctx context.Context) ([]*Motivation, error)
}

// BonusSnapshotRepository reads the active bonus data on the service side.
type BonusSnapshotRepository interface {
	ActiveSchemes(ctx context.Context, at time.Time) ([]*BonusScheme, error)
	ActiveMotivations(ctx context.Context, at time.Time) ([]*Motivation, error)
}
