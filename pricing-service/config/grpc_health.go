package config

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// PredictorServiceName is the gRPC health service name for the price model.
const PredictorServiceName = "carprice.PricePredictor"

// GRPCHealthServer exposes grpc.health.v1.Health for orchestrator probes.
type GRPCHealthServer struct {
	server *grpc.Server
	health *health.Server
	lis    net.Listener
}

// NewGRPCHealthServer listens on addr.
func NewGRPCHealthServer(addr string, modelLoaded bool) (*GRPCHealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for gRPC health on %s: %w", addr, err)
	}
	return NewGRPCHealthServerOn(lis, modelLoaded), nil
}

// NewGRPCHealthServerOn serves on an existing listener.
func NewGRPCHealthServerOn(lis net.Listener, modelLoaded bool) *GRPCHealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	g := &GRPCHealthServer{server: srv, health: hs, lis: lis}
	g.SetModelLoaded(modelLoaded)
	return g
}

// SetModelLoaded reports SERVING for the overall service and the predictor
// while a model is loaded, NOT_SERVING otherwise.
func (g *GRPCHealthServer) SetModelLoaded(loaded bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if loaded {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(PredictorServiceName, status)
}

func (g *GRPCHealthServer) Addr() net.Addr {
	return g.lis.Addr()
}

// Serve blocks until Close is called.
func (g *GRPCHealthServer) Serve() error {
	return g.server.Serve(g.lis)
}

// Close marks every service NOT_SERVING and stops the server.
func (g *GRPCHealthServer) Close() {
	g.health.Shutdown()
	g.server.GracefulStop()
}
