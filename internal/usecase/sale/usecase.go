// Package sale captures promoter sales on the device.
package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/bonus"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RecordInput struct {
	ProductID        string
	ProductVariantID *string
	Quantity         int
	UnitPrice        decimal.Decimal
}

type SaleUsecase interface {
	Record(ctx context.Context, input RecordInput) (*domain.PendingSale, error)
	PendingCount(ctx context.Context) (int64, error)
	ListPending(ctx context.Context) ([]*domain.PendingSale, error)
	RefreshSnapshot(ctx context.Context) error
}

// Identity names the promoter sales are recorded as. An empty id means the
// device has not logged in yet.
type Identity interface {
	PromoterID() string
}

type DrainTrigger interface {
	Trigger()
}

type OnlineChecker interface {
	IsOnline() bool
}

type CaptureRecorder interface {
	RecordSaleCaptured()
}

type DefaultSaleUsecase struct {
	identity  Identity
	queue     domain.SaleQueue
	snapshots domain.SnapshotStore
	source    domain.SnapshotSource
	trigger   DrainTrigger
	online    OnlineChecker
	metrics   CaptureRecorder
	logger    *zap.Logger

	newID func() string
	now   func() time.Time
}

func NewDefaultSaleUsecase(
	identity Identity,
	queue domain.SaleQueue,
	snapshots domain.SnapshotStore,
	source domain.SnapshotSource,
	trigger DrainTrigger,
	online OnlineChecker,
	metrics CaptureRecorder,
	logger *zap.Logger,
) (*DefaultSaleUsecase, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &DefaultSaleUsecase{
		identity:  identity,
		queue:     queue,
		snapshots: snapshots,
		source:    source,
		trigger:   trigger,
		online:    online,
		metrics:   metrics,
		logger:    logger,
		newID:     idGenerator,
		now:       time.Now,
	}, nil
}

// Record computes the bonus, stores the sale in the local queue and, when the
// service is reachable, asks for an immediate drain. The sale is durable once
// Record returns without error; a failed save is returned as is.
func (uc *DefaultSaleUsecase) Record(ctx context.Context, input RecordInput) (*domain.PendingSale, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	promoterID := uc.identity.PromoterID()
	if promoterID == "" {
		return nil, domain.ErrIdentityUnknown
	}

	schemes, err := uc.snapshots.Schemes(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bonus schemes: %w", err)
	}
	motivations, err := uc.snapshots.Motivations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load motivations: %w", err)
	}

	now := uc.now().UTC()
	total := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2)
	computed := bonus.Compute(bonus.Input{
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		TotalAmount: total,
		Schemes:     schemes,
		Motivations: motivations,
		Now:         now,
	})

	sale := &domain.PendingSale{
		ID:               uc.newID(),
		ClientUUID:       uuid.New().String(),
		PromoterID:       promoterID,
		ProductID:        input.ProductID,
		ProductVariantID: input.ProductVariantID,
		Quantity:         input.Quantity,
		TotalAmount:      total,
		BonusAmount:      computed.BonusAmount,
		BonusExtra:       computed.BonusExtra,
		CreatedAt:        now,
	}
	if err := uc.queue.Save(ctx, sale); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordSaleCaptured()
	}
	uc.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("client_uuid", sale.ClientUUID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("total_amount", sale.TotalAmount.StringFixed(2)),
		zap.String("bonus_amount", sale.BonusAmount.StringFixed(2)),
		zap.String("scheme_id", computed.SchemeID),
		zap.String("motivation_id", computed.MotivationID),
	)

	if uc.online != nil && uc.online.IsOnline() {
		uc.trigger.Trigger()
	}
	return sale, nil
}

func (uc *DefaultSaleUsecase) PendingCount(ctx context.Context) (int64, error) {
	return uc.queue.CountPending(ctx)
}

func (uc *DefaultSaleUsecase) ListPending(ctx context.Context) ([]*domain.PendingSale, error) {
	return uc.queue.ListPending(ctx)
}

// RefreshSnapshot replaces the local bonus snapshot with the service's current
// one. On error the previous snapshot stays in place.
func (uc *DefaultSaleUsecase) RefreshSnapshot(ctx context.Context) error {
	if uc.source == nil {
		return nil
	}
	schemes, err := uc.source.FetchSchemes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch bonus schemes: %w", err)
	}
	motivations, err := uc.source.FetchMotivations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch motivations: %w", err)
	}
	if err := uc.snapshots.ReplaceSchemes(ctx, schemes); err != nil {
		return err
	}
	if err := uc.snapshots.ReplaceMotivations(ctx, motivations); err != nil {
		return err
	}
	uc.logger.Debug("bonus snapshot refreshed",
		zap.Int("schemes", len(schemes)),
		zap.Int("motivations", len(motivations)),
	)
	return nil
}

func validate(input RecordInput) error {
	if strings.TrimSpace(input.ProductID) == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidSale)
	}
	if input.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidSale)
	}
	if input.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidSale)
	}
	return nil
}
