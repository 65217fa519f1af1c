package sale

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type triggerCounter struct{ n int }

func (t *triggerCounter) Trigger() { t.n++ }

type onlineFlag bool

type promoterIdentity string

func (p promoterIdentity) PromoterID() string { return string(p) }

func (o onlineFlag) IsOnline() bool { return bool(o) }

type fakeSource struct {
	schemes     []*domain.BonusScheme
	motivations []*domain.Motivation
	err         error
}

func (f *fakeSource) FetchSchemes(context.Context) ([]*domain.BonusScheme, error) {
	return f.schemes, f.err
}

func (f *fakeSource) FetchMotivations(context.Context) ([]*domain.Motivation, error) {
	return f.motivations, f.err
}

type failingQueue struct {
	domain.SaleQueue
}

func (failingQueue) Save(context.Context, *domain.PendingSale) error {
	return domain.ErrLocalPersistence
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func snapshot() *fakeSource {
	return &fakeSource{
		schemes: []*domain.BonusScheme{
			{ID: "scheme-low", ProductID: "P", BonusPercent: decimal.NewFromInt(5), MinQuantity: 1, Active: true},
			{ID: "scheme-high", ProductID: "P", BonusPercent: decimal.NewFromInt(10), MinQuantity: 1, Active: true},
		},
		motivations: []*domain.Motivation{
			{ID: "m1", Title: "June push", BonusExtra: decimal.NewFromInt(2000), Active: true, StartDate: fixedNow.Add(-24 * time.Hour)},
		},
	}
}

type env struct {
	uc      *DefaultSaleUsecase
	queue   *repository.PendingSaleQueue
	trigger *triggerCounter
}

func newEnv(t *testing.T, online bool) *env {
	t.Helper()
	db, err := sqlite.Open(config.LocalQueue{Path: filepath.Join(t.TempDir(), "agent.db")})
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close(db) })

	queue := repository.NewPendingSaleQueue(db)
	store := repository.NewSnapshotStore(db)
	trigger := &triggerCounter{}

	uc, err := NewDefaultSaleUsecase(promoterIdentity("promoter-1"), queue, store, snapshot(), trigger, onlineFlag(online), nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	uc.now = func() time.Time { return fixedNow }
	require.NoError(t, uc.RefreshSnapshot(context.Background()))

	return &env{uc: uc, queue: queue, trigger: trigger}
}

func TestRecord_ComputesBonusAndQueues(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	sale, err := e.uc.Record(ctx, RecordInput{ProductID: "P", Quantity: 2, UnitPrice: decimal.NewFromInt(20000)})
	require.NoError(t, err)

	assert.Len(t, sale.ID, 15)
	assert.Len(t, sale.ClientUUID, 36)
	assert.Equal(t, "promoter-1", sale.PromoterID)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(40000)))
	assert.True(t, sale.BonusAmount.Equal(decimal.NewFromInt(4000)), sale.BonusAmount.String())
	assert.True(t, sale.BonusExtra.Equal(decimal.NewFromInt(2000)), sale.BonusExtra.String())
	assert.False(t, sale.Synced)
	assert.Equal(t, fixedNow, sale.CreatedAt)

	pending, err := e.queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sale.ClientUUID, pending[0].ClientUUID)

	count, err := e.uc.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.Zero(t, e.trigger.n, "no drain requested while offline")
}

func TestRecord_RoundsTotalToCents(t *testing.T) {
	e := newEnv(t, false)

	sale, err := e.uc.Record(context.Background(), RecordInput{ProductID: "P", Quantity: 3, UnitPrice: decimal.RequireFromString("0.333")})
	require.NoError(t, err)
	assert.Equal(t, "1.00", sale.TotalAmount.StringFixed(2))
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(1)), sale.TotalAmount.String())
	assert.True(t, sale.BonusAmount.Equal(decimal.RequireFromString("0.1")), sale.BonusAmount.String())
}

func TestRecord_RefusedBeforeFirstLogin(t *testing.T) {
	e := newEnv(t, true)
	e.uc.identity = promoterIdentity("")

	_, err := e.uc.Record(context.Background(), RecordInput{ProductID: "P", Quantity: 1, UnitPrice: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrIdentityUnknown)

	count, err := e.uc.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, e.trigger.n)
}

func TestRecord_TriggersDrainWhenOnline(t *testing.T) {
	e := newEnv(t, true)

	_, err := e.uc.Record(context.Background(), RecordInput{ProductID: "P", Quantity: 1, UnitPrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, 1, e.trigger.n)
}

func TestRecord_NoMatchingSchemeGivesZeroBonus(t *testing.T) {
	e := newEnv(t, false)

	sale, err := e.uc.Record(context.Background(), RecordInput{ProductID: "other", Quantity: 1, UnitPrice: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.True(t, sale.BonusAmount.IsZero())
	assert.True(t, sale.BonusExtra.Equal(decimal.NewFromInt(2000)))
}

func TestRecord_RejectsInvalidInput(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	cases := map[string]RecordInput{
		"missing product":  {Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
		"zero quantity":    {ProductID: "P", Quantity: 0, UnitPrice: decimal.NewFromInt(1)},
		"negative price":   {ProductID: "P", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)},
		"blank product id": {ProductID: "  ", Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.uc.Record(ctx, input)
			assert.ErrorIs(t, err, domain.ErrInvalidSale)
		})
	}

	count, err := e.uc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, e.trigger.n)
}

func TestRecord_SaveFailurePropagates(t *testing.T) {
	e := newEnv(t, true)
	e.uc.queue = failingQueue{}

	_, err := e.uc.Record(context.Background(), RecordInput{ProductID: "P", Quantity: 1, UnitPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrLocalPersistence)
	assert.Zero(t, e.trigger.n)
}

func TestRefreshSnapshot_KeepsPreviousOnError(t *testing.T) {
	e := newEnv(t, false)
	e.uc.source = &fakeSource{err: errors.New("offline")}

	require.Error(t, e.uc.RefreshSnapshot(context.Background()))

	sale, err := e.uc.Record(context.Background(), RecordInput{ProductID: "P", Quantity: 1, UnitPrice: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.True(t, sale.BonusAmount.Equal(decimal.NewFromInt(100)))
}
