package grpcserver

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/config"
	"volunteerManagement/internal/db"
	"volunteerManagement/internal/metrics"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"

	// ServiceName is the health-checked service name; "" reports the same status.
	ServiceName = "volunteermanagement.v1.VolunteerManagement"
)

// NewServer builds a gRPC server exposing the standard health service. Every
// unary method except the health check requires a bearer token.
func NewServer(secret string) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(secret, healthCheckMethod)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

// checkDatabase pings the database and publishes the result as the serving
// status of both the overall server and ServiceName.
func checkDatabase(ctx context.Context, hs *health.Server, g *gorm.DB) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	st := healthpb.HealthCheckResponse_SERVING
	if err := db.Ping(ctx, g); err != nil {
		slog.Warn("database ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	} else {
		metrics.DatabasePing.Set(float64(time.Since(start).Microseconds()))
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
	return st
}

// watchDatabase re-checks the database every interval until ctx is done.
func watchDatabase(ctx context.Context, hs *health.Server, g *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkDatabase(ctx, hs, g)
		}
	}
}

// StartGRPC starts the gRPC server on the configured address and returns a shutdown function.
func StartGRPC(cfg *config.Config, g *gorm.DB) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv, hs := NewServer(cfg.Auth.JWTSecret)
	checkDatabase(context.Background(), hs, g)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go watchDatabase(watchCtx, hs, g, cfg.GRPC.HealthInterval)
	go func() { _ = srv.Serve(lis) }()

	return func(ctx context.Context) error {
		stopWatch()
		hs.Shutdown()
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
