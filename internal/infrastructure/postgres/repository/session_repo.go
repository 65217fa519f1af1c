package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSessionRepository struct {
	DB *gorm.DB
}

func NewDefaultSessionRepository(db *gorm.DB) *DefaultSessionRepository {
	return &DefaultSessionRepository{
		DB: db,
	}
}

func (r *DefaultSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "promoter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "created_at"}),
		}).
		Create(mappers.ToGORMSession(session)).Error
}

func (r *DefaultSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var model models.SessionModel
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainSession(&model), nil
}
