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

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default ./config/app.yaml)")
	snapshot := pflag.StringP("snapshot", "s", "", "workbook to seed (default store.snapshot)")
	skipMeili := pflag.Bool("skip-meili", false, "do not touch the search index")
	exportSample := pflag.String("export-sample", "", "write the built-in sample dataset to this workbook and exit")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "address-offers-seed")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if *exportSample != "" {
		if err := dataset.SaveFile(dataset.Sample(), *exportSample); err != nil {
			logger.Fatal("Failed to export sample", zap.Error(err))
		}
		logger.Info("Sample dataset exported", zap.String("path", *exportSample))
		return
	}

	path := *snapshot
	if path == "" {
		path = cfg.Store.Snapshot
	}
	if path == "" {
		logger.Fatal("No snapshot given, use --snapshot or store.snapshot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := dataset.LoadFile(path)
	if err != nil {
		logger.Fatal("Failed to load snapshot", zap.Error(err))
	}

	ms, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.QueryTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer ms.Close(context.Background())

	seeder := &bootstrap.Seeder{Mongo: ms, Logger: logger}
	if !*skipMeili {
		seeder.Search = bootstrap.OpenSearch(cfg, logger)
	}
	if err := seeder.Seed(ctx, ds); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Seeding completed", zap.String("snapshot", path))
}
