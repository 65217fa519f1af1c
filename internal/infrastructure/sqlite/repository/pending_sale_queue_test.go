package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(config.LocalQueue{Path: path})
	require.NoError(t, err)
	return db
}

func newQueue(t *testing.T) *repository.PendingSaleQueue {
	t.Helper()
	db := openDB(t, filepath.Join(t.TempDir(), "queue.db"))
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return repository.NewPendingSaleQueue(db)
}

func newSale(id string, createdAt time.Time) *domain.PendingSale {
	variant := "variant-128gb"
	return &domain.PendingSale{
		ID:               id,
		ClientUUID:       uuid.NewString(),
		PromoterID:       "promoter-1",
		ProductID:        "product-1",
		ProductVariantID: &variant,
		Quantity:         2,
		TotalAmount:      decimal.RequireFromString("1999.90"),
		BonusAmount:      decimal.RequireFromString("79.99"),
		BonusExtra:       decimal.NewFromInt(500),
		CreatedAt:        createdAt.UTC(),
	}
}

func TestSaveAndListPending(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)
	base := time.Now().Add(-time.Hour)

	second := newSale("sale-2", base.Add(time.Minute))
	first := newSale("sale-1", base)
	require.NoError(t, q.Save(ctx, second))
	require.NoError(t, q.Save(ctx, first))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "sale-1", pending[0].ID)
	assert.Equal(t, "sale-2", pending[1].ID)

	got := pending[0]
	assert.Equal(t, first.ClientUUID, got.ClientUUID)
	assert.Equal(t, "variant-128gb", *got.ProductVariantID)
	assert.True(t, got.TotalAmount.Equal(first.TotalAmount))
	assert.True(t, got.BonusAmount.Equal(first.BonusAmount))
	assert.True(t, got.BonusExtra.Equal(first.BonusExtra))
	assert.False(t, got.Synced)
	assert.Nil(t, got.SyncedAt)
}

func TestSave_DuplicateClientUUIDIsNoop(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	sale := newSale("sale-1", time.Now())
	require.NoError(t, q.Save(ctx, sale))

	again := *sale
	again.ID = "sale-1-retry"
	require.NoError(t, q.Save(ctx, &again))

	count, err := q.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSave_IDClashIsSurfaced(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	require.NoError(t, q.Save(ctx, newSale("sale-1", time.Now())))
	err := q.Save(ctx, newSale("sale-1", time.Now()))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLocalPersistence)
}

func TestSave_ForcesUnsynced(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	sale := newSale("sale-1", time.Now())
	sale.Synced = true
	require.NoError(t, q.Save(ctx, sale))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestMarkSynced_IsMonotonic(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	first := newSale("sale-1", time.Now())
	require.NoError(t, q.Save(ctx, first))
	require.NoError(t, q.Save(ctx, newSale("sale-2", time.Now())))

	require.NoError(t, q.MarkSynced(ctx, "sale-1"))
	require.NoError(t, q.MarkSynced(ctx, "sale-1"))
	require.NoError(t, q.MarkSynced(ctx, "missing"))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "sale-2", pending[0].ID)

	// saving the same sale again must not make it pending
	require.NoError(t, q.Save(ctx, first))

	count, err := q.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	require.NoError(t, q.Save(ctx, newSale("sale-1", time.Now())))

	err := q.Delete(ctx, "sale-1")
	assert.ErrorIs(t, err, domain.ErrSaleNotSynced)

	require.NoError(t, q.MarkSynced(ctx, "sale-1"))
	require.NoError(t, q.Delete(ctx, "sale-1"))
	require.NoError(t, q.Delete(ctx, "sale-1"))
	require.NoError(t, q.Delete(ctx, "never-existed"))
}

func TestPurgeSynced(t *testing.T) {
	ctx := context.Background()
	q := newQueue(t)

	require.NoError(t, q.Save(ctx, newSale("sale-1", time.Now())))
	require.NoError(t, q.Save(ctx, newSale("sale-2", time.Now())))
	require.NoError(t, q.MarkSynced(ctx, "sale-1"))

	purged, err := q.PurgeSynced(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)

	purged, err = q.PurgeSynced(ctx, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	count, err := q.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestQueueSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	db := openDB(t, path)
	require.NoError(t, repository.NewPendingSaleQueue(db).Save(ctx, newSale("sale-1", time.Now())))
	require.NoError(t, sqlite.Close(db))

	db = openDB(t, path)
	defer sqlite.Close(db)

	pending, err := repository.NewPendingSaleQueue(db).ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "sale-1", pending[0].ID)
}
