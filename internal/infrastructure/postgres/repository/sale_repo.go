package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSaleRepository struct {
	DB *gorm.DB
}

func NewDefaultSaleRepository(db *gorm.DB) *DefaultSaleRepository {
	return &DefaultSaleRepository{
		DB: db,
	}
}

// InsertIdempotent relies on the unique constraint on sales.client_uuid, so
// concurrent submissions of one sale store exactly one row.
func (r *DefaultSaleRepository) InsertIdempotent(ctx context.Context, sale *domain.Sale) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_uuid"}},
			DoNothing: true,
		}).
		Create(mappers.ToGORMSale(sale))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultSaleRepository) GetByClientUUID(ctx context.Context, clientUUID string) (*domain.Sale, error) {
	var model models.SaleModel
	err := r.DB.WithContext(ctx).Where("client_uuid = ?", clientUUID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale %s: %w", clientUUID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainSale(&model), nil
}
