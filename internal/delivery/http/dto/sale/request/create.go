package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the body of POST /api/v1/sales on the sales service.
type CreateSaleRequest struct {
	ClientUUID       string          `json:"client_uuid" binding:"required"`
	PromoterID       string          `json:"promoter_id" binding:"required"`
	ProductID        string          `json:"product_id" binding:"required"`
	ProductVariantID *string         `json:"product_variant_id,omitempty"`
	Quantity         int             `json:"quantity" binding:"required,min=1"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	BonusAmount      decimal.Decimal `json:"bonus_amount"`
	BonusExtra       decimal.Decimal `json:"bonus_extra"`
	CreatedAt        time.Time       `json:"created_at" binding:"required"`
}

// RecordSaleRequest is the body of POST /api/v1/sales on the promoter agent.
type RecordSaleRequest struct {
	ProductID        string          `json:"product_id" binding:"required"`
	ProductVariantID *string         `json:"product_variant_id,omitempty"`
	Quantity         int             `json:"quantity" binding:"required,min=1"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}
