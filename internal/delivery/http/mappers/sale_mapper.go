package mappers

import (
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/request"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
)

func ToCreateSaleRequest(sale *domain.PendingSale) request.CreateSaleRequest {
	return request.CreateSaleRequest{
		ClientUUID:       sale.ClientUUID,
		PromoterID:       sale.PromoterID,
		ProductID:        sale.ProductID,
		ProductVariantID: sale.ProductVariantID,
		Quantity:         sale.Quantity,
		TotalAmount:      sale.TotalAmount,
		BonusAmount:      sale.BonusAmount,
		BonusExtra:       sale.BonusExtra,
		CreatedAt:        sale.CreatedAt,
	}
}

func ToPendingSaleResponse(sale *domain.PendingSale) response.PendingSaleResponse {
	return response.PendingSaleResponse{
		ID:               sale.ID,
		ClientUUID:       sale.ClientUUID,
		ProductID:        sale.ProductID,
		ProductVariantID: sale.ProductVariantID,
		Quantity:         sale.Quantity,
		TotalAmount:      sale.TotalAmount,
		BonusAmount:      sale.BonusAmount,
		BonusExtra:       sale.BonusExtra,
		CreatedAt:        sale.CreatedAt,
		Synced:           sale.Synced,
	}
}
