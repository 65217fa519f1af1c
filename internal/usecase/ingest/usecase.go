// Package ingest stores sales submitted by promoter devices. Submissions are
// idempotent on the client UUID.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SubmitInput struct {
	ClientUUID       string
	PromoterID       string
	ProductID        string
	ProductVariantID *string
	Quantity         int
	TotalAmount      decimal.Decimal
	BonusAmount      decimal.Decimal
	BonusExtra       decimal.Decimal
	CreatedAt        time.Time
}

type SubmitResult struct {
	Sale    *domain.Sale
	Created bool
}

type IngestUsecase interface {
	Submit(ctx context.Context, promoterID string, input SubmitInput) (*SubmitResult, error)
}

type IngestRecorder interface {
	RecordSaleCreated(productID string, amount, bonus, extra float64, durationSeconds float64)
	RecordSaleDuplicate(durationSeconds float64)
	RecordSaleRejected(reason string)
	RecordPublishError()
}

type DefaultIngestUsecase struct {
	saleRepo  domain.SaleRepository
	publisher domain.SaleEventPublisher
	metrics   IngestRecorder
	logger    *zap.Logger

	now func() time.Time
}

func NewDefaultIngestUsecase(
	saleRepo domain.SaleRepository,
	publisher domain.SaleEventPublisher,
	metrics IngestRecorder,
	logger *zap.Logger,
) *DefaultIngestUsecase {
	return &DefaultIngestUsecase{
		saleRepo:  saleRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit stores the sale unless one with the same client UUID already exists,
// in which case the stored sale is returned with Created=false. Only the first
// submission publishes a SaleRecorded event.
func (uc *DefaultIngestUsecase) Submit(ctx context.Context, promoterID string, input SubmitInput) (*SubmitResult, error) {
	start := uc.now()
	clientUUID, err := validate(input)
	if err != nil {
		uc.rejected("invalid")
		return nil, err
	}
	if input.PromoterID != promoterID {
		uc.rejected("promoter_mismatch")
		return nil, domain.ErrPromoterMismatch
	}

	sale := &domain.Sale{
		ID:               uuid.New().String(),
		ClientUUID:       clientUUID,
		PromoterID:       input.PromoterID,
		ProductID:        input.ProductID,
		ProductVariantID: input.ProductVariantID,
		Quantity:         input.Quantity,
		TotalAmount:      input.TotalAmount,
		BonusAmount:      input.BonusAmount,
		BonusExtra:       input.BonusExtra,
		CreatedAt:        input.CreatedAt.UTC(),
		ReceivedAt:       start.UTC(),
	}
	created, err := uc.saleRepo.InsertIdempotent(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("failed to store sale %s: %w", sale.ClientUUID, err)
	}

	if !created {
		existing, err := uc.saleRepo.GetByClientUUID(ctx, sale.ClientUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing sale %s: %w", sale.ClientUUID, err)
		}
		if existing.PromoterID != promoterID {
			uc.rejected("promoter_mismatch")
			return nil, domain.ErrPromoterMismatch
		}
		if uc.metrics != nil {
			uc.metrics.RecordSaleDuplicate(uc.now().Sub(start).Seconds())
		}
		uc.logger.Info("duplicate sale submission",
			zap.String("client_uuid", sale.ClientUUID),
			zap.String("sale_id", existing.ID),
		)
		return &SubmitResult{Sale: existing, Created: false}, nil
	}

	if uc.metrics != nil {
		uc.metrics.RecordSaleCreated(sale.ProductID,
			sale.TotalAmount.InexactFloat64(),
			sale.BonusAmount.InexactFloat64(),
			sale.BonusExtra.InexactFloat64(),
			uc.now().Sub(start).Seconds(),
		)
	}
	uc.logger.Info("sale stored",
		zap.String("sale_id", sale.ID),
		zap.String("client_uuid", sale.ClientUUID),
		zap.String("promoter_id", sale.PromoterID),
	)

	// The sale is already stored; a failed publish must not fail the request.
	if uc.publisher != nil {
		if err := uc.publisher.PublishSaleRecorded(ctx, toEvent(sale)); err != nil {
			if uc.metrics != nil {
				uc.metrics.RecordPublishError()
			}
			uc.logger.Error("failed to publish sale event", zap.String("sale_id", sale.ID), zap.Error(err))
		}
	}
	return &SubmitResult{Sale: sale, Created: true}, nil
}

func (uc *DefaultIngestUsecase) rejected(reason string) {
	if uc.metrics != nil {
		uc.metrics.RecordSaleRejected(reason)
	}
}

// validate returns the client UUID in canonical form; uuid.Parse also
// accepts the urn:uuid: and braced spellings of the same key.
func validate(input SubmitInput) (string, error) {
	parsed, err := uuid.Parse(input.ClientUUID)
	if err != nil {
		return "", fmt.Errorf("%w: client uuid %q", domain.ErrInvalidSale, input.ClientUUID)
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return "", fmt.Errorf("%w: product id is required", domain.ErrInvalidSale)
	}
	if input.Quantity < 1 {
		return "", fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidSale)
	}
	for name, amount := range map[string]decimal.Decimal{
		"total_amount": input.TotalAmount,
		"bonus_amount": input.BonusAmount,
		"bonus_extra":  input.BonusExtra,
	} {
		if amount.IsNegative() {
			return "", fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidSale, name)
		}
	}
	if input.CreatedAt.IsZero() {
		return "", fmt.Errorf("%w: created_at is required", domain.ErrInvalidSale)
	}
	return parsed.String(), nil
}

func toEvent(sale *domain.Sale) domain.SaleRecordedEvent {
	return domain.SaleRecordedEvent{
		SaleID:           sale.ID,
		ClientUUID:       sale.ClientUUID,
		PromoterID:       sale.PromoterID,
		ProductID:        sale.ProductID,
		ProductVariantID: sale.ProductVariantID,
		Quantity:         sale.Quantity,
		TotalAmount:      sale.TotalAmount.StringFixed(2),
		BonusAmount:      sale.BonusAmount.StringFixed(2),
		BonusExtra:       sale.BonusExtra.StringFixed(2),
		CreatedAt:        sale.CreatedAt,
	}
}
