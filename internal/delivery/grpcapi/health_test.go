package grpcapi_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/connectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type flakyDB struct {
	down atomic.Bool
}

func (d *flakyDB) PingContext(context.Context) error {
	if d.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestHealthHandler_ServesProberStatus(t *testing.T) {
	db := &flakyDB{}
	h := grpcapi.NewHealthHandler(db, zaptest.NewLogger(t))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	h.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	prober, err := connectivity.NewGRPCProber(lis.Addr().String())
	require.NoError(t, err)
	defer prober.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Check(ctx))
	assert.NoError(t, prober.Probe(ctx))

	db.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Check(ctx))
	assert.Error(t, prober.Probe(ctx))
}
