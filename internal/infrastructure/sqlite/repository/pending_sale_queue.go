package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingSaleQueue is the SQLite-backed domain.SaleQueue. Every read goes to
// the database; nothing is cached in memory.
type PendingSaleQueue struct {
	DB *gorm.DB
}

func NewPendingSaleQueue(db *gorm.DB) *PendingSaleQueue {
	return &PendingSaleQueue{
		DB: db,
	}
}

func (q *PendingSaleQueue) Save(ctx context.Context, sale *domain.PendingSale) error {
	model := mappers.ToGORMPendingSale(sale)
	model.Synced = false
	model.SyncedAt = nil

	err := q.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_uuid"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("%w: sale %s: %w", domain.ErrLocalPersistence, sale.ID, err)
	}
	return nil
}

func (q *PendingSaleQueue) ListPending(ctx context.Context) ([]*domain.PendingSale, error) {
	var saleModels []*models.PendingSaleModel
	if err := q.DB.WithContext(ctx).
		Where("synced = ?", false).
		Order("created_at asc, id asc").
		Find(&saleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending sales: %w", err)
	}

	sales := make([]*domain.PendingSale, len(saleModels))
	for i, saleModel := range saleModels {
		sales[i] = mappers.ToDomainPendingSale(saleModel)
	}
	return sales, nil
}

func (q *PendingSaleQueue) MarkSynced(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return q.DB.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("id = ? AND synced = ?", id, false).
		Updates(map[string]interface{}{
			"synced":    true,
			"synced_at": now,
		}).Error
}

func (q *PendingSaleQueue) Delete(ctx context.Context, id string) error {
	return q.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND synced = ?", id, true).Delete(&models.PendingSaleModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var unsynced int64
		if err := tx.Model(&models.PendingSaleModel{}).Where("id = ?", id).Count(&unsynced).Error; err != nil {
			return err
		}
		if unsynced > 0 {
			return fmt.Errorf("delete sale %s: %w", id, domain.ErrSaleNotSynced)
		}
		return nil
	})
}

func (q *PendingSaleQueue) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := q.DB.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("synced = ?", false).
		Count(&count).Error
	return count, err
}

func (q *PendingSaleQueue) PurgeSynced(ctx context.Context, olderThan time.Time) (int64, error) {
	res := q.DB.WithContext(ctx).
		Where("synced = ? AND synced_at < ?", true, olderThan.UTC()).
		Delete(&models.PendingSaleModel{})
	return res.RowsAffected, res.Error
}
