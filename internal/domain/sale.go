package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the authoritative record held by the sales service.
type Sale struct {
	ID               string
	ClientUUID       string
	PromoterID       string
	ProductID        string
	ProductVariantID *string
	Quantity         int
	TotalAmount      decimal.Decimal
	BonusAmount      decimal.Decimal
	BonusExtra       decimal.Decimal
	CreatedAt        time.Time
	ReceivedAt       time.Time
}

type SaleRepository interface {
	// InsertIdempotent stores the sale unless one with the same ClientUUID
	// exists. created reports whether a new row was written.
	InsertIdempotent(ctx context.Context, sale *Sale) (created bool, err error)
	GetByClientUUID(ctx context.Context, clientUUID string) (*Sale, error)
}

type SaleRecordedEvent struct {
	SaleID           string    `json:"sale_id"`
	ClientUUID       string    `json:"client_uuid"`
	PromoterID       string    `json:"promoter_id"`
	ProductID        string    `json:"product_id"`
	ProductVariantID *string   `json:"product_variant_id,omitempty"`
	Quantity         int       `json:"quantity"`
	TotalAmount      string    `json:"total_amount"`
	BonusAmount      string    `json:"bonus_amount"`
	BonusExtra       string    `json:"bonus_extra"`
	CreatedAt        time.Time `json:"created_at"`
}

type SaleEventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event SaleRecordedEvent) error
}
