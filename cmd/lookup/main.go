package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/address-offers/app/config"
	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/bootstrap"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/logging"
)

// lookup walks the address cascade from the command line and prints the offers:
//
//	lookup --settlement Warszawa --street marsz --number 12A
func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default ./config/app.yaml)")
	var q query
	pflag.StringVar(&q.Settlement, "settlement", "", "settlement name or fragment")
	pflag.StringVar(&q.Street, "street", "", "street name or fragment (omit for streetless settlements)")
	pflag.StringVar(&q.Number, "number", "", "building number")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, "console", "address-offers-lookup")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open data store", zap.Error(err))
	}
	defer st.Close(context.Background())

	index, err := bootstrap.NewIndex(cfg, st, logger)
	if err != nil {
		logger.Fatal("Failed to load street rules", zap.Error(err))
	}

	l := &lookup{
		session: locality.NewSession(index),
		offers:  services.NewOfferService(st, cfg.Offers.Timeout, logger),
		out:     os.Stdout,
	}
	if err := l.run(ctx, q); err != nil {
		logger.Error("Lookup failed", zap.Error(err))
		os.Exit(1)
	}
}
