package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/config"
	"volunteerManagement/internal/db"
	grpcserver "volunteerManagement/internal/grpc"
	"volunteerManagement/internal/httpapi"
	"volunteerManagement/internal/service"
	"volunteerManagement/repository"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load .env", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(log)
	log.Info("configuration loaded", "config", cfg.String())
	if cfg.Log.Level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Error("open db", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", "error", err)
		}
	}()
	g, err := db.NewGorm(d)
	if err != nil {
		log.Error("open gorm", "error", err)
		os.Exit(1)
	}

	svc := service.New(repository.NewStore(g), service.Options{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		Hasher:    auth.BcryptHasher{Cost: cfg.Auth.BcryptCost},
		Location:  cfg.Location,
		Logger:    log,
	})

	// Start HTTP
	stopHTTP, err := httpapi.StartHTTP(cfg.HTTP.Address, httpapi.NewRouter(svc, cfg.Auth.JWTSecret, log))
	if err != nil {
		log.Error("start http", "error", err)
		os.Exit(1)
	}
	log.Info("HTTP server listening", "address", cfg.HTTP.Address)

	// Start gRPC
	stopGRPC, err := grpcserver.StartGRPC(cfg, g)
	if err != nil {
		log.Error("start grpc", "error", err)
		os.Exit(1)
	}
	log.Info("gRPC server listening", "address", cfg.GRPC.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopHTTP(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if err := stopGRPC(ctx); err != nil {
		log.Error("grpc shutdown", "error", err)
	}
}
