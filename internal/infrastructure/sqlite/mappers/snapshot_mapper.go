package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
)

func ToGORMBonusScheme(s *domain.BonusScheme) *models.BonusSchemeModel {
	return &models.BonusSchemeModel{
		ID:           s.ID,
		Name:         s.Name,
		ProductID:    s.ProductID,
		BonusPercent: s.BonusPercent,
		MinQuantity:  s.MinQuantity,
		Active:       s.Active,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
	}
}

func ToDomainBonusScheme(m *models.BonusSchemeModel) *domain.BonusScheme {
	return &domain.BonusScheme{
		ID:           m.ID,
		Name:         m.Name,
		ProductID:    m.ProductID,
		BonusPercent: m.BonusPercent,
		MinQuantity:  m.MinQuantity,
		Active:       m.Active,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
	}
}

func ToGORMMotivation(m *domain.Motivation) *models.MotivationModel {
	return &models.MotivationModel{
		ID:         m.ID,
		Title:      m.Title,
		BonusExtra: m.BonusExtra,
		Active:     m.Active,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
	}
}

func ToDomainMotivation(m *models.MotivationModel) *domain.Motivation {
	return &domain.Motivation{
		ID:         m.ID,
		Title:      m.Title,
		BonusExtra: m.BonusExtra,
		Active:     m.Active,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
	}
}
