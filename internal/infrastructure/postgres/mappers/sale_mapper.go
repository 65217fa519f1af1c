package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/models"
)

func ToGORMSale(sale *domain.Sale) *models.SaleModel {
	return &models.SaleModel{
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
		ReceivedAt:       sale.ReceivedAt,
	}
}

func ToDomainSale(model *models.SaleModel) *domain.Sale {
	return &domain.Sale{
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
		ReceivedAt:       model.ReceivedAt,
	}
}
