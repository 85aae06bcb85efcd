// Package grpc serves the scene store over gRPC with CBOR-encoded messages,
// next to the standard gRPC health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/scenevault/internal/logging"
	"github.com/dmitrijs2005/scenevault/internal/sceneapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	sceneapi.UnimplementedSceneServiceServer
	address string
	scenes  SceneService
	logger  logging.Logger
}

func NewGRPCServer(address string, logger logging.Logger, scenes SceneService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  logger.With("module", "grpc_server"),
		scenes:  scenes,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestIDInterceptor,
		s.loggingInterceptor,
		s.recoveryInterceptor,
	))

	sceneapi.RegisterSceneServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(sceneapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}
