package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/address-offers/app/config"
	"github.com/address-offers/internal/bootstrap"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/logging"
	"github.com/address-offers/internal/store/mongostore"
)

// The worker keeps MongoDB and the search index in sync with the snapshot workbook:
// every time the file is replaced it is re-seeded.
func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default ./config/app.yaml)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "address-offers-worker")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Store.Snapshot == "" {
		logger.Fatal("store.snapshot is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting Address Offers Worker...")

	ms, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.QueryTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer ms.Close(context.Background())

	seeder := &bootstrap.Seeder{Mongo: ms, Search: bootstrap.OpenSearch(cfg, logger), Logger: logger}

	err = dataset.Watch(ctx, cfg.Store.Snapshot, logger, func(ds *dataset.Dataset) {
		if err := seeder.Seed(ctx, ds); err != nil {
			logger.Error("Re-seed failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Snapshot watcher failed", zap.Error(err))
	}

	logger.Info("Worker exited")
}
