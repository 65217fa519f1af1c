package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
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
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoadSalesService()
	zl := logger.MustNew(cfg.LogConfig)
	defer zl.Sync()

	deps, err := setup.InitializeDependencies(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize sales service", zap.Error(err))
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks := background.NewServiceTasks(deps.Health)
	tasks.StartAll(ctx)

	// Creating gRPC server
	grpcServer := grpc.NewServer()
	deps.Health.Register(grpcServer)

	grpcAddr := fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		zl.Fatal("failed to listen", zap.String("addr", grpcAddr), zap.Error(err))
	}
	go func() {
		zl.Info("gRPC server started", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			zl.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	tasks.Wait()
}
