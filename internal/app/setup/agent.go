package setup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/router"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/connectivity"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/remote"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/sqlite/repository"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/identity"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/sale"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/syncer"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AgentDependencies struct {
	Config      *config.AgentConfig
	DB          *gorm.DB
	Queue       *repository.PendingSaleQueue
	Remote      *remote.Client
	Identity    *identity.Manager
	Monitor     *connectivity.Monitor
	Coordinator *syncer.Coordinator
	SaleUsecase *sale.DefaultSaleUsecase
	Router      *gin.Engine

	prober connectivity.Prober
}

// InitializeAgent opens the local queue and wires the promoter agent. When
// init data is configured the agent logs in first; if the service cannot be
// reached it starts anyway with the last stored login, or the configured
// identity, and retries the login later.
func InitializeAgent(ctx context.Context, cfg *config.AgentConfig, logger *zap.Logger) (*AgentDependencies, error) {
	db, err := sqlite.Open(cfg.LocalQueue)
	if err != nil {
		return nil, err
	}
	deps := &AgentDependencies{
		Config: cfg,
		DB:     db,
		Queue:  repository.NewPendingSaleQueue(db),
		Remote: remote.NewClient(cfg.SalesService, cfg.Identity.SessionToken),
	}

	deps.Identity = identity.NewManager(deps.Remote, deps.Remote, repository.NewIdentityStore(db), identity.Config{
		InitData:     cfg.Identity.InitData,
		PromoterID:   cfg.Identity.PromoterID,
		SessionToken: cfg.Identity.SessionToken,
	}, logger)
	if err := deps.Identity.Resolve(ctx); err != nil {
		deps.Close()
		return nil, err
	}

	deps.prober, err = newProber(cfg, deps.Remote)
	if err != nil {
		deps.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	syncMetrics := metrics.NewSyncMetrics(reg)

	deps.Monitor = connectivity.NewMonitor(deps.prober, connectivity.Config{
		ProbeInterval: cfg.Connectivity.ProbeInterval,
		ProbeTimeout:  cfg.Connectivity.ProbeTimeout,
		SyncInterval:  cfg.Connectivity.SyncInterval,
	}, logger, syncMetrics)

	deps.Coordinator = syncer.NewCoordinator(deps.Queue, deps.Remote, logger, syncMetrics, syncer.Options{
		DeleteOnSync: cfg.LocalQueue.PurgeOnSync,
		Sessions:     deps.Identity,
	})

	deps.SaleUsecase, err = sale.NewDefaultSaleUsecase(
		deps.Identity,
		deps.Queue,
		repository.NewSnapshotStore(db),
		deps.Remote,
		deps.Coordinator,
		deps.Monitor,
		syncMetrics,
		logger,
	)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.Router = router.NewAgentRouter(
		handlers.NewAgentHandler(deps.SaleUsecase, deps.Coordinator, deps.Monitor, logger),
		reg,
		logger,
	)
	return deps, nil
}

func newProber(cfg *config.AgentConfig, client *remote.Client) (connectivity.Prober, error) {
	switch cfg.Connectivity.Probe {
	case "", "http":
		return connectivity.NewHTTPProber(client.HTTP(), ""), nil
	case "grpc":
		if cfg.SalesService.GRPCAddress == "" {
			return nil, errors.New("sales_service.grpc_address is required for the grpc probe")
		}
		prober, err := connectivity.NewGRPCProber(cfg.SalesService.GRPCAddress)
		if err != nil {
			return nil, err
		}
		return prober, nil
	default:
		return nil, fmt.Errorf("unknown connectivity probe %q", cfg.Connectivity.Probe)
	}
}

func (d *AgentDependencies) Close() {
	if c, ok := d.prober.(io.Closer); ok {
		_ = c.Close()
	}
	if d.Remote != nil {
		_ = d.Remote.Close()
	}
	if d.DB != nil {
		_ = sqlite.Close(d.DB)
	}
}
