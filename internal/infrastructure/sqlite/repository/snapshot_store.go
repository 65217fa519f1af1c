package repository

import (
	"context"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
	"gorm.io/gorm"
)

// SnapshotStore keeps the last bonus snapshot downloaded from the sales
// service. Each Replace call swaps the whole table in one transaction.
type SnapshotStore struct {
	DB *gorm.DB
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{DB: db}
}

func (s *SnapshotStore) ReplaceSchemes(ctx context.Context, schemes []*domain.BonusScheme) error {
	schemeModels := make([]*models.BonusSchemeModel, len(schemes))
	for i, scheme := range schemes {
		schemeModels[i] = mappers.ToGORMBonusScheme(scheme)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.BonusSchemeModel{}).Error; err != nil {
			return err
		}
		if len(schemeModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(schemeModels, 100).Error
	})
}

func (s *SnapshotStore) ReplaceMotivations(ctx context.Context, motivations []*domain.Motivation) error {
	motivationModels := make([]*models.MotivationModel, len(motivations))
	for i, motivation := range motivations {
		motivationModels[i] = mappers.ToGORMMotivation(motivation)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.MotivationModel{}).Error; err != nil {
			return err
		}
		if len(motivationModels) == 0 {
			return nil
		}
		return tx.CreateInBatches(motivationModels, 100).Error
	})
}

func (s *SnapshotStore) Schemes(ctx context.Context, productID string) ([]*domain.BonusScheme, error) {
	var schemeModels []*models.BonusSchemeModel
	if err := s.DB.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&schemeModels).Error; err != nil {
		return nil, err
	}

	schemes := make([]*domain.BonusScheme, len(schemeModels))
	for i, m := range schemeModels {
		schemes[i] = mappers.ToDomainBonusScheme(m)
	}
	return schemes, nil
}

func (s *SnapshotStore) Motivations(ctx context.Context) ([]*domain.Motivation, error) {
	var motivationModels []*models.MotivationModel
	if err := s.DB.WithContext(ctx).Order("id").Find(&motivationModels).Error; err != nil {
		return nil, err
	}

	motivations := make([]*domain.Motivation, len(motivationModels))
	for i, m := range motivationModels {
		motivations[i] = mappers.ToDomainMotivation(m)
	}
	return motivations, nil
}
