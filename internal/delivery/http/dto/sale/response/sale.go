package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSaleResponse struct {
	ID         string    `json:"id"`
	ClientUUID string    `json:"client_uuid"`
	Created    bool      `json:"created"`
	ReceivedAt time.Time `json:"received_at"`
}

type PendingSaleResponse struct {
	ID               string          `json:"id"`
	ClientUUID       string          `json:"client_uuid"`
	ProductID        string          `json:"product_id"`
	ProductVariantID *string         `json:"product_variant_id,omitempty"`
	Quantity         int             `json:"quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	BonusAmount      decimal.Decimal `json:"bonus_amount"`
	BonusExtra       decimal.Decimal `json:"bonus_extra"`
	CreatedAt        time.Time       `json:"created_at"`
	Synced           bool            `json:"synced"`
}

type PendingSalesResponse struct {
	Count int64                 `json:"count"`
	Sales []PendingSaleResponse `json:"sales"`
}

type SyncResponse struct {
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Errors    []string `json:"errors"`
}

type StatusResponse struct {
	Online  bool  `json:"online"`
	Pending int64 `json:"pending"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
