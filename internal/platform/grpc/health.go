// Package grpc exposes the landing process health over grpc.health.v1 so
// orchestrators can check it without scraping the HTML surface.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer serves the standard gRPC health protocol.
type HealthServer struct {
	server   *gogrpc.Server
	health   *health.Server
	services []string
}

// NewHealthServer builds a health server reporting NOT_SERVING for the
// overall server ("") and each named service until SetServing is called.
func NewHealthServer(services ...string) *HealthServer {
	server := gogrpc.NewServer(gogrpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	names := append([]string{""}, services...)
	for _, name := range names {
		healthServer.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return &HealthServer{server: server, health: healthServer, services: names}
}

// SetServing flips every registered service between SERVING and NOT_SERVING.
func (s *HealthServer) SetServing(serving bool) {
	if s == nil {
		return
	}
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	for _, name := range s.services {
		s.health.SetServingStatus(name, status)
	}
}

// Serve accepts connections on lis until ctx ends, then drains in-flight
// calls for at most grace before forcing the server closed.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener, grace time.Duration) error {
	if s == nil {
		return errors.New("health server is nil")
	}
	if lis == nil {
		return errors.New("listener is required")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("ops gRPC health listening on %s", lis.Addr())
	go func() {
		serveErr <- s.server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.server.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(grace):
			s.server.Stop()
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve grpc health: %w", err)
	}
}
