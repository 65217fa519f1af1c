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

type DefaultPromoterRepository struct {
	DB *gorm.DB
}

func NewDefaultPromoterRepository(db *gorm.DB) *DefaultPromoterRepository {
	return &DefaultPromoterRepository{
		DB: db,
	}
}

// UpsertByTelegramID creates the promoter on first login. Later logins refresh
// the profile names and keep the stored id and role.
func (r *DefaultPromoterRepository) UpsertByTelegramID(ctx context.Context, promoter *domain.Promoter) (*domain.Promoter, error) {
	var result models.PromoterModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("telegram_id = ?", promoter.TelegramID).
			First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = *mappers.ToGORMPromoter(promoter)
			return tx.Create(&result).Error
		}
		if err != nil {
			return err
		}
		result.FirstName = promoter.FirstName
		result.LastName = promoter.LastName
		result.Username = promoter.Username
		return tx.Model(&models.PromoterModel{}).
			Where("id = ?", result.ID).
			Updates(map[string]interface{}{
				"first_name": promoter.FirstName,
				"last_name":  promoter.LastName,
				"username":   promoter.Username,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert promoter %s: %w", promoter.TelegramID, err)
	}
	return mappers.ToDomainPromoter(&result), nil
}
