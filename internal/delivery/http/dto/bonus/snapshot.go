package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

type BonusSchemeResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ProductID    string          `json:"product_id"`
	BonusPercent decimal.Decimal `json:"bonus_percent"`
	MinQuantity  int             `json:"min_quantity"`
	Active       bool            `json:"active"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
}

type MotivationResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	BonusExtra decimal.Decimal `json:"bonus_extra"`
	Active     bool            `json:"active"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
}

type BonusSchemesResponse struct {
	Schemes []BonusSchemeResponse `json:"schemes"`
}

type MotivationsResponse struct {
	Motivations []MotivationResponse `json:"motivations"`
}
