package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/config"
	"liyu1981.xyz/telemetry-service/pkg/db"
	telemetryGrpc "liyu1981.xyz/telemetry-service/pkg/grpc"
	telemetryHttp "liyu1981.xyz/telemetry-service/pkg/http"
	"liyu1981.xyz/telemetry-service/pkg/influx"
	"liyu1981.xyz/telemetry-service/pkg/metrics"
	"liyu1981.xyz/telemetry-service/pkg/mqtt"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration, copy .env.example to .env first if in development: %v", err)
	}

	common.InitLogger(cfg.LogDir)
	logger := common.GetLogger()
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	var dialector gorm.Dialector
	switch cfg.DBType {
	case config.DBTypeMemory:
		dialector = db.UseMemorySqliteDialector()
	default:
		dialector = db.UseSqliteDialector(cfg.DBPath)
	}

	dbInstance, err := db.Open(dialector)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = dbInstance.Close() }()

	telemetryCore := telemetry.New(dbInstance, cfg.APIKey)

	if cfg.RateLimitEnabled() {
		telemetryCore.WithLimiters(telemetry.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst))
		logger.Info("Per-device rate limiting enabled",
			zap.Float64("default_rate", cfg.DefaultRate),
			zap.Int("default_burst", cfg.DefaultBurst),
		)
	}

	if cfg.Influx.Enabled() {
		sink, err := influx.NewSink(cfg.Influx)
		if err != nil {
			logger.Fatal("Failed to create influx sink", zap.Error(err))
		}
		defer sink.Close()
		telemetryCore.WithServices(telemetry.ServiceOpts{Sink: sink})
		logger.Info("Mirroring readings to influx", zap.String("url", cfg.Influx.URL), zap.String("bucket", cfg.Influx.Bucket))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GRPCHostPort != "" {
		telemetryGrpcServer := &telemetryGrpc.TelemetryServer{Telemetry: telemetryCore}
		interceptor := telemetryGrpcServer.CreateRateLimitInterceptor(telemetryGrpc.WriteMethods)
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		telemetryGrpc.RegisterTelemetryServiceServer(grpcServer, telemetryGrpcServer)

		listener, err := net.Listen("tcp", cfg.GRPCHostPort)
		if err != nil {
			logger.Fatal("Failed to listen for gRPC", zap.String("addr", cfg.GRPCHostPort), zap.Error(err))
		}

		go func() {
			logger.Info("Starting gRPC server on " + cfg.GRPCHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- err
			}
		}()
	}

	if cfg.MQTT.Enabled() {
		subscriber := mqtt.NewSubscriber(cfg.MQTT, telemetryCore)
		if err := subscriber.Start(); err != nil {
			logger.Fatal("Failed to start MQTT subscriber", zap.Error(err))
		}
		defer subscriber.Close()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rs := &telemetryHttp.RestfulServer{
		Server:      gin.Default(),
		Telemetry:   telemetryCore,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	}
	rs.Setup()

	httpServer := &http.Server{
		Addr:              cfg.HTTPHostPort,
		Handler:           rs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server on " + cfg.HTTPHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}
