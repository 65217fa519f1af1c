package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultBonusSnapshotRepository struct {
	DB *gorm.DB
}

func NewDefaultBonusSnapshotRepository(db *gorm.DB) *DefaultBonusSnapshotRepository {
	return &DefaultBonusSnapshotRepository{
		DB: db,
	}
}

func (r *DefaultBonusSnapshotRepository) ActiveSchemes(ctx context.Context, at time.Time) ([]*domain.BonusScheme, error) {
	var schemeModels []*models.BonusSchemeModel
	err := r.DB.WithContext(ctx).
		Where("active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Order("id").
		Find(&schemeModels).Error
	if err != nil {
		return nil, err
	}

	schemes := make([]*domain.BonusScheme, len(schemeModels))
	for i, m := range schemeModels {
		schemes[i] = mappers.ToDomainBonusScheme(m)
	}
	return schemes, nil
}

func (r *DefaultBonusSnapshotRepository) ActiveMotivations(ctx context.Context, at time.Time) ([]*domain.Motivation, error) {
	var motivationModels []*models.MotivationModel
	err := r.DB.WithContext(ctx).
		Where("active = ?", true).
		Where("start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Order("start_date DESC, id").
		Find(&motivationModels).Error
	if err != nil {
		return nil, err
	}

	motivations := make([]*domain.Motivation, len(motivationModels))
	for i, m := range motivationModels {
		motivations[i] = mappers.ToDomainMotivation(m)
	}
	return motivations, nil
}
