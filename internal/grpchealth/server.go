package grpchealth

import (
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "hunt.JobTracker"

// Server exposes grpc.health.v1.Health for orchestrator probes.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *logrus.Logger
}

// NewServer creates a health server. Both services start as NOT_SERVING.
func NewServer(logger *logrus.Logger) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		logger:     logger,
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetServing marks the API as ready.
func (s *Server) SetServing() {
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve blocks serving health checks on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.WithField("addr", lis.Addr().String()).Info("gRPC health server listening")
	return s.grpcServer.Serve(lis)
}

// ListenAndServe listens on addr and serves until Stop is called.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Stop reports NOT_SERVING to any watchers and then stops the server.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.logger.Info("gRPC health server stopped")
}
