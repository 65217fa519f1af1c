package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
)

func ToDomainBonusScheme(model *models.BonusSchemeModel) *domain.BonusScheme {
	return &domain.BonusScheme{
		ID:           model.ID,
		Name:         model.Name,
		ProductID:    model.ProductID,
		BonusPercent: model.BonusPercent,
		MinQuantity:  model.MinQuantity,
		Active:       model.Active,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
	}
}

func ToDomainMotivation(model *models.MotivationModel) *domain.Motivation {
	return &domain.Motivation{
		ID:         model.ID,
		Title:      model.Title,
		BonusExtra: model.BonusExtra,
		Active:     model.Active,
		StartDate:  model.StartDate,
		EndDate:    model.EndDate,
	}
}
