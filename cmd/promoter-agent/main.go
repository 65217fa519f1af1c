package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/app/background"
	"github.com/LavaJover/shvark-sales-sync/internal/app/setup"
	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoadAgent()
	zl := logger.MustNew(cfg.LogConfig)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, cfg.SalesService.Timeout)
	deps, err := setup.InitializeAgent(initCtx, cfg, zl)
	cancelInit()
	if err != nil {
		zl.Fatal("failed to initialize promoter agent", zap.Error(err))
	}
	defer deps.Close()

	pending, err := deps.Queue.CountPending(ctx)
	if err != nil {
		zl.Fatal("failed to read local queue", zap.Error(err))
	}
	zl.Info("local queue opened", zap.String("path", cfg.LocalQueue.Path), zap.Int64("pending", pending))

	tasks := background.NewAgentTasks(
		deps.Monitor,
		deps.Coordinator,
		deps.SaleUsecase,
		deps.Queue,
		background.AgentTasksConfig{
			Retention:       cfg.LocalQueue.Retention,
			PurgeInterval:   cfg.LocalQueue.PurgeInterval,
			SnapshotRefresh: cfg.LocalQueue.SnapshotRefresh,
			IdentityRetry:   cfg.Identity.RetryInterval,
		},
		zl,
	)
	if cfg.Identity.InitData != "" {
		tasks.Identity = deps.Identity
	}
	tasks.StartAll(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("agent API started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	tasks.Wait()
}
