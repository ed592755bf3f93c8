package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aguerrero22/model-elector/config"
	"github.com/aguerrero22/model-elector/internal/breaker"
	"github.com/aguerrero22/model-elector/internal/elector"
	"github.com/aguerrero22/model-elector/internal/handler"
	"github.com/aguerrero22/model-elector/internal/healthcheck"
	"github.com/aguerrero22/model-elector/internal/httpserver"
	"github.com/aguerrero22/model-elector/internal/metrics"
	"github.com/aguerrero22/model-elector/internal/registry"
	"github.com/aguerrero22/model-elector/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	targets, err := registry.Resolve(cfg.Backends)
	if err != nil {
		log.Error("Failed to resolve backends", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Resolved prediction backends",
		slog.Int("count", len(targets)),
		slog.String("primary", registry.Primary(targets).Name()))

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(ctx)

	if err := startHealthChecks(ctx, cfg, targets, collector, log); err != nil {
		log.Error("Failed to start health checks", slog.Any("err", err))
		os.Exit(1)
	}

	elect, err := buildElector(cfg, targets, collector, log)
	if err != nil {
		log.Error("Failed to build elector", slog.Any("err", err))
		os.Exit(1)
	}

	predictHandler := handler.NewPredictHandler(log, elect, collector)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(predictHandler, collector))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Elector service started", slog.String("address", cfg.Server.Address))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting elector service", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildElector(cfg *config.Config, targets []*registry.Target, collector *metrics.Collector, log *slog.Logger) (*elector.Elector, error) {
	breakerTimeout, err := time.ParseDuration(cfg.Breaker.Timeout)
	if err != nil {
		return nil, err
	}

	breakers := breaker.NewRegistry(cfg.Breaker.Threshold, breakerTimeout, log)
	executor := elector.NewExecutor(cfg.CallTimeout(), breakers, collector, log)

	return elector.New(executor, targets, cfg.TotalTimeout(), collector, log), nil
}

func startHealthChecks(ctx context.Context, cfg *config.Config, targets []*registry.Target, collector *metrics.Collector, log *slog.Logger) error {
	interval, err := time.ParseDuration(cfg.HealthCheck.Interval)
	if err != nil {
		return err
	}

	for _, target := range targets {
		go healthcheck.HealthCheck(ctx, target, interval, collector, log)
	}

	return nil
}
