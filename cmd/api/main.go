package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/storefront"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("[API] %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startedAt := time.Now()

	logger.Info("starting storefront",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("backend", cfg.Backend.Mode),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	kv, closeKV, err := openKV(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeKV()

	var events store.EventStoreInterface
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic, logger)
		defer producer.Close()
		es, err := store.NewEventStore(producer, logger)
		if err != nil {
			return err
		}
		events = es
		logger.Info("publishing activity events", zap.String("topic", cfg.Kafka.ActivityTopic))
	}

	var wg sync.WaitGroup
	gateways, err := openGateways(ctx, cfg, logger, &wg)
	if err != nil {
		return err
	}

	registry := storefront.NewRegistry(kv, storefront.Dependencies{
		Catalog: cat,
		Auth:    gateways.auth,
		Orders:  gateways.orders,
		Events:  events,
		Logger:  logger,
	}, cfg.Server.MaxWorkspaces)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	handlers := api.NewHandlers(registry, cat, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handlers, jwtService, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.Stringer("signal", sig))
	case err := <-serverErr:
		cancel()
		wg.Wait()
		return err
	}

	cancel() // stops the order consumer

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}

	wg.Wait()
	logger.Info("stopped", zap.Int("workspaces", registry.Len()), zap.Duration("uptime", time.Since(startedAt)))
	return nil
}
