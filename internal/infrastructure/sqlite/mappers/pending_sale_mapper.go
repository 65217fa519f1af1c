package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/models"
)

func ToGORMPendingSale(sale *domain.PendingSale) *models.PendingSaleModel {
	return &models.PendingSaleModel{
		ID:               sale.ID,
		ClientUUID:       sale.ClientUUID,
		PromoterID:       sale.PromoterID,
		ProductID:        sale.ProductID,
		ProductVariantID: sale.ProductVariantID,
		Quantity:         sale.Quantity,
		TotalAmount:      sale.TotalAmount,
		BonusAmount:      sale.BonusAmount,
		BonusExtra:       sale.BonusExtra,
		CreatedAt:        sale.CreatedAt,
		Synced:           sale.Synced,
		SyncedAt:         sale.SyncedAt,
	}
}

func ToDomainPendingSale(model *models.PendingSaleModel) *domain.PendingSale {
	return &domain.PendingSale{
		ID:               model.ID,
		ClientUUID:       model.ClientUUID,
		PromoterID:       model.PromoterID,
		ProductID:        model.ProductID,
		ProductVariantID: model.ProductVariantID,
		Quantity:         model.Quantity,
		TotalAmount:      model.TotalAmount,
		BonusAmount:      model.BonusAmount,
		BonusExtra:       model.BonusExtra,
		CreatedAt:        model.CreatedAt,
		Synced:           model.Synced,
		SyncedAt:         model.SyncedAt,
	}
}
