package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/session"
	"github.com/example/storefront/internal/gateway/httpgw"
	"github.com/example/storefront/internal/gateway/memory"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/projection"
	"github.com/example/storefront/internal/query"
	"go.uber.org/zap"
)

// demoUserID is the id the in-process auth gateway gives every login.
const demoUserID = "1"

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.Default()
}

// openKV returns the configured client storage and a func releasing it.
func openKV(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (store.KV, func(), error) {
	switch cfg.Backend {
	case config.StoragePostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		kv, err := store.NewPostgresKV(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to PostgreSQL")
		return kv, func() { db.Close() }, nil

	case config.StorageDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
			}
		})
		logger.Info("using DynamoDB", zap.String("table", cfg.DynamoTable))
		return store.NewDynamoKV(client, cfg.DynamoTable), func() {}, nil

	default:
		logger.Warn("client storage is in memory and will not survive a restart")
		return store.NewMemoryKV(), func() {}, nil
	}
}

type gateways struct {
	auth   session.AuthGateway
	orders order.Gateway
}

// openGateways builds the backend collaborators. In stream mode it starts
// the order consumer on wg; it stops when ctx is cancelled.
func openGateways(ctx context.Context, cfg *config.Config, logger *zap.Logger, wg *sync.WaitGroup) (gateways, error) {
	switch cfg.Backend.Mode {
	case config.BackendHTTP:
		client := httpgw.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, logger)
		logger.Info("using HTTP backend", zap.String("url", cfg.Backend.URL))
		return gateways{
			auth:   httpgw.NewAuthGateway(client),
			orders: httpgw.NewOrderGateway(client),
		}, nil

	case config.BackendStream:
		readStore := store.NewReadStore()
		projector := projection.NewProjector(readStore, logger)
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, cfg.Kafka.GroupID, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer consumer.Close()
			logger.Info("consuming order events", zap.String("topic", cfg.Kafka.OrderTopic))
			if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
				logger.Error("order consumer stopped", zap.Error(err))
			}
		}()

		return gateways{
			auth:   memory.NewAuthGateway(),
			orders: query.NewHandler(readStore, logger),
		}, nil

	default:
		orders := memory.NewOrderGateway()
		if cfg.Backend.SeedDemoOrders {
			for _, o := range memory.DemoOrders(demoUserID, time.Now()) {
				orders.Put(o)
			}
		}
		return gateways{
			auth:   memory.NewAuthGateway(),
			orders: orders,
		}, nil
	}
}
