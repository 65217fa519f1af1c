package connectivity

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"resty.dev/v3"
)

// HTTPProber treats a 2xx from the service health endpoint as online.
type HTTPProber struct {
	client *resty.Client
	path   string
}

func NewHTTPProber(client *resty.Client, path string) *HTTPProber {
	if path == "" {
		path = "/healthz"
	}
	return &HTTPProber{client: client, path: path}
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	res, err := p.client.R().SetContext(ctx).Get(p.path)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("health check returned status %d", res.StatusCode())
	}
	return nil
}

// GRPCProber asks the standard gRPC health service whether the sales service
// is serving.
type GRPCProber struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

func NewGRPCProber(address string) (*GRPCProber, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", address, err)
	}
	return &GRPCProber{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
	}, nil
}

func (p *GRPCProber) Probe(ctx context.Context) error {
	res, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("sales service health status %s", res.GetStatus())
	}
	return nil
}

func (p *GRPCProber) Close() error {
	return p.conn.Close()
}
