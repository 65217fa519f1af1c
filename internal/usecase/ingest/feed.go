package ingest

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"go.uber.org/zap"
)

// SnapshotCache holds the current snapshot for a short while. A miss is
// reported with ok=false.
type SnapshotCache interface {
	GetSchemes(ctx context.Context) (schemes []*domain.BonusScheme, ok bool, err error)
	SetSchemes(ctx context.Context, schemes []*domain.BonusScheme) error
	GetMotivations(ctx context.Context) (motivations []*domain.Motivation, ok bool, err error)
	SetMotivations(ctx context.Context, motivations []*domain.Motivation) error
}

type FeedUsecase interface {
	Schemes(ctx context.Context) ([]*domain.BonusScheme, error)
	Motivations(ctx context.Context) ([]*domain.Motivation, error)
}

// DefaultFeedUsecase serves the bonus snapshot devices compute bonuses from.
// Cache failures fall through to the database.
type DefaultFeedUsecase struct {
	repo   domain.BonusSnapshotRepository
	cache  SnapshotCache
	logger *zap.Logger

	now func() time.Time
}

func NewDefaultFeedUsecase(repo domain.BonusSnapshotRepository, cache SnapshotCache, logger *zap.Logger) *DefaultFeedUsecase {
	return &DefaultFeedUsecase{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *DefaultFeedUsecase) Schemes(ctx context.Context) ([]*domain.BonusScheme, error) {
	if uc.cache != nil {
		schemes, ok, err := uc.cache.GetSchemes(ctx)
		if err != nil {
			uc.logger.Warn("snapshot cache read failed", zap.String("kind", "schemes"), zap.Error(err))
		} else if ok {
			return schemes, nil
		}
	}
	schemes, err := uc.repo.ActiveSchemes(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetSchemes(ctx, schemes); err != nil {
			uc.logger.Warn("snapshot cache write failed", zap.String("kind", "schemes"), zap.Error(err))
		}
	}
	return schemes, nil
}

func (uc *DefaultFeedUsecase) Motivations(ctx context.Context) ([]*domain.Motivation, error) {
	if uc.cache != nil {
		motivations, ok, err := uc.cache.GetMotivations(ctx)
		if err != nil {
			uc.logger.Warn("snapshot cache read failed", zap.String("kind", "motivations"), zap.Error(err))
		} else if ok {
			return motivations, nil
		}
	}
	motivations, err := uc.repo.ActiveMotivations(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetMotivations(ctx, motivations); err != nil {
			uc.logger.Warn("snapshot cache write failed", zap.String("kind", "motivations"), zap.Error(err))
		}
	}
	return motivations, nil
}
