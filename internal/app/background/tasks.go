package background

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/connectivity"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/syncer"
	"go.uber.org/zap"
)

type SnapshotRefresher interface {
	RefreshSnapshot(ctx context.Context) error
}

type OnlineChecker interface {
	IsOnline() bool
}

// IdentityRefresher is the agent's login state. A stale identity was
// resolved offline or rejected by the service and needs a fresh login.
type IdentityRefresher interface {
	Stale() bool
	Refresh(ctx context.Context) error
}

type AgentTasksConfig struct {
	Retention       time.Duration
	PurgeInterval   time.Duration
	SnapshotRefresh time.Duration
	IdentityRetry   time.Duration
}

// AgentTasks runs the promoter agent's long-lived loops: connectivity
// probing, sync on connectivity events, snapshot refresh and purging of
// synced sales.
type AgentTasks struct {
	Monitor     *connectivity.Monitor
	Coordinator *syncer.Coordinator
	Snapshots   SnapshotRefresher
	Queue       domain.SaleQueue
	// Identity is optional; set it when the agent logs in with init data.
	Identity IdentityRefresher
	Config   AgentTasksConfig
	Logger   *zap.Logger

	wg sync.WaitGroup
}

func NewAgentTasks(
	monitor *connectivity.Monitor,
	coordinator *syncer.Coordinator,
	snapshots SnapshotRefresher,
	queue domain.SaleQueue,
	cfg AgentTasksConfig,
	logger *zap.Logger,
) *AgentTasks {
	return &AgentTasks{
		Monitor:     monitor,
		Coordinator: coordinator,
		Snapshots:   snapshots,
		Queue:       queue,
		Config:      cfg,
		Logger:      logger,
	}
}

func (bt *AgentTasks) StartAll(ctx context.Context) {
	bt.spawn(func() { bt.Monitor.Run(ctx) })
	bt.spawn(func() { bt.Coordinator.Run(ctx, bt.Monitor.Events()) })
	bt.spawn(func() { bt.startSnapshotRefresh(ctx, bt.Monitor) })
	if bt.Identity != nil {
		bt.spawn(func() { bt.startIdentityRetry(ctx, bt.Monitor) })
	}
	if bt.Config.Retention > 0 {
		bt.spawn(func() { bt.startPurgeSynced(ctx) })
	}
}

// Wait blocks until every loop started by StartAll has returned.
func (bt *AgentTasks) Wait() {
	bt.wg.Wait()
}

func (bt *AgentTasks) spawn(fn func()) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		fn()
	}()
}

func (bt *AgentTasks) startSnapshotRefresh(ctx context.Context, online OnlineChecker) {
	interval := bt.Config.SnapshotRefresh
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// the first probe has not finished yet, so try once regardless
	bt.refreshSnapshot(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !online.IsOnline() {
				continue
			}
			bt.refreshSnapshot(ctx)
		}
	}
}

func (bt *AgentTasks) refreshSnapshot(ctx context.Context) {
	if err := bt.Snapshots.RefreshSnapshot(ctx); err != nil {
		bt.Logger.Warn("bonus snapshot refresh failed, keeping the previous one", zap.Error(err))
	}
}

func (bt *AgentTasks) startIdentityRetry(ctx context.Context, online OnlineChecker) {
	interval := bt.Config.IdentityRetry
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !bt.Identity.Stale() || !online.IsOnline() {
				continue
			}
			bt.retryLogin(ctx)
		}
	}
}

func (bt *AgentTasks) retryLogin(ctx context.Context) {
	if err := bt.Identity.Refresh(ctx); err != nil {
		bt.Logger.Warn("promoter login retry failed", zap.Error(err))
		return
	}
	// schemes may be promoter specific, so pull them again under the new session
	bt.refreshSnapshot(ctx)
}

func (bt *AgentTasks) startPurgeSynced(ctx context.Context) {
	interval := bt.Config.PurgeInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.purgeSynced(ctx, time.Now())
		}
	}
}

func (bt *AgentTasks) purgeSynced(ctx context.Context, now time.Time) {
	purged, err := bt.Queue.PurgeSynced(ctx, now.Add(-bt.Config.Retention))
	if err != nil {
		bt.Logger.Error("failed to purge synced sales", zap.Error(err))
		return
	}
	if purged > 0 {
		bt.Logger.Info("purged synced sales", zap.Int64("count", purged))
	}
}

type HealthWatcher interface {
	Watch(ctx context.Context, interval time.Duration)
}

// ServiceTasks runs the sales service's background loops.
type ServiceTasks struct {
	Health HealthWatcher
	wg     sync.WaitGroup
}

func NewServiceTasks(health HealthWatcher) *ServiceTasks {
	return &ServiceTasks{Health: health}
}

func (st *ServiceTasks) StartAll(ctx context.Context) {
	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		st.Health.Watch(ctx, 10*time.Second)
	}()
}

func (st *ServiceTasks) Wait() {
	st.wg.Wait()
}
