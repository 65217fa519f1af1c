package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/router"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/ingest"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.SalesServiceConfig
	DB           *gorm.DB
	Registry     *prometheus.Registry
	Publisher    *kafka.KafkaPublisher
	Cache        *cache.RedisSnapshotCache
	Repositories *Repositories
	UseCases     *UseCases
	Router       *gin.Engine
	Health       *grpcapi.HealthHandler
}

type Repositories struct {
	SaleRepo     domain.SaleRepository
	PromoterRepo domain.PromoterRepository
	SessionRepo  domain.SessionRepository
	BonusRepo    domain.BonusSnapshotRepository
}

type UseCases struct {
	IngestUsecase  ingest.IngestUsecase
	FeedUsecase    ingest.FeedUsecase
	SessionUsecase session.SessionUsecase
}

// InitializeDependencies opens the database, applies migrations and wires
// the sales service. Kafka and Redis are optional and skipped when their
// address is empty.
func InitializeDependencies(cfg *config.SalesServiceConfig, logger *zap.Logger) (*Dependencies, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, errors.New("telegram.bot_token is empty")
	}

	db, err := postgres.InitDB(cfg.SalesDB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	if err := migrate.RunMigrations(db, cfg.SalesDB.MigrationsPath, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, "sales"),
	)
	ingestMetrics := metrics.NewIngestMetrics(reg)

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		Registry: reg,
		Repositories: &Repositories{
			SaleRepo:     repository.NewDefaultSaleRepository(db),
			PromoterRepo: repository.NewDefaultPromoterRepository(db),
			SessionRepo:  repository.NewDefaultSessionRepository(db),
			BonusRepo:    repository.NewDefaultBonusSnapshotRepository(db),
		},
		Health: grpcapi.NewHealthHandler(sqlDB, logger),
	}

	var publisher domain.SaleEventPublisher
	if cfg.KafkaService.Host != "" {
		deps.Publisher, err = initSalePublisher(cfg)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("sale publisher: %w", err)
		}
		publisher = deps.Publisher
	} else {
		logger.Warn("kafka is not configured, sale events are not published")
	}

	var snapshotCache ingest.SnapshotCache
	if cfg.RedisCache.Addr != "" {
		deps.Cache = cache.NewRedisSnapshotCache(cfg.RedisCache)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := deps.Cache.Ping(ctx); err != nil {
			logger.Warn("redis is unreachable, snapshot reads go to the database", zap.Error(err))
		}
		cancel()
		snapshotCache = deps.Cache
	}

	deps.UseCases = &UseCases{
		IngestUsecase: ingest.NewDefaultIngestUsecase(deps.Repositories.SaleRepo, publisher, ingestMetrics, logger),
		FeedUsecase:   ingest.NewDefaultFeedUsecase(deps.Repositories.BonusRepo, snapshotCache, logger),
		SessionUsecase: session.NewDefaultSessionUsecase(
			deps.Repositories.PromoterRepo,
			deps.Repositories.SessionRepo,
			cfg.Telegram.BotToken,
			cfg.Telegram.MaxAuthAge,
			ingestMetrics,
			logger,
		),
	}

	deps.Router = router.NewServiceRouter(router.ServiceHandlers{
		Sales:    handlers.NewSaleHandler(deps.UseCases.IngestUsecase, logger),
		Auth:     handlers.NewAuthHandler(deps.UseCases.SessionUsecase, logger),
		Bonus:    handlers.NewBonusFeedHandler(deps.UseCases.FeedUsecase, logger),
		Sessions: deps.UseCases.SessionUsecase,
	}, reg, logger)

	return deps, nil
}

func initSalePublisher(cfg *config.SalesServiceConfig) (*kafka.KafkaPublisher, error) {
	return kafka.NewKafkaPublisher(kafka.KafkaConfig{
		Brokers:    []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Topic:      cfg.KafkaService.Topic,
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	})
}

func (d *Dependencies) Close() {
	if d.Publisher != nil {
		_ = d.Publisher.Close()
	}
	if d.Cache != nil {
		_ = d.Cache.Close()
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
