package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"isengard/internal/bus"
	"isengard/internal/config"
	"isengard/internal/infrastructure/logger"
	"isengard/internal/infrastructure/metrics"
	"isengard/internal/infrastructure/postgres"
	"isengard/internal/payment"
	"isengard/internal/server"
)

const serviceName = "payment-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With(zap.String("service", serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("database initialization failed", zap.Error(err))
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(registry, serviceName)
	busMetrics := metrics.NewBusMetrics(registry, serviceName)

	messageBus, err := bus.NewRabbitBus(cfg.Rabbit.URL, serviceName, log, busMetrics)
	if err != nil {
		log.Fatal("message bus initialization failed", zap.Error(err))
	}
	defer messageBus.Close()

	if _, err := payment.NewModule(ctx, pool, messageBus, log); err != nil {
		log.Fatal("payment module initialization failed", zap.Error(err))
	}

	router := server.NewRouter(serverMetrics, registry)
	srv := server.New(cfg.Server.Port, router, log)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
	log.Info("service stopped gracefully")
}
