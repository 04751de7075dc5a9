package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/address-offers/app/config"
	"github.com/address-offers/app/controllers"
	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/bootstrap"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/logging"
	"github.com/address-offers/internal/parser"
	"github.com/address-offers/routes"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default ./config/app.yaml)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "address-offers-api")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting Address Offers Service", zap.String("env", cfg.App.Env), zap.String("store", cfg.Store.Driver))

	st, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open data store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Error("Failed to close data store", zap.Error(err))
		}
	}()

	cache, err := bootstrap.NewCache(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
	}

	index, err := bootstrap.NewIndex(cfg, st, logger)
	if err != nil {
		logger.Fatal("Failed to load street rules", zap.Error(err))
	}

	var (
		suggester services.SettlementSuggester
		health    services.HealthChecker
	)
	if si := bootstrap.OpenSearch(cfg, logger); si != nil {
		suggester, health = si, si
	}

	if st.Memory != nil && cfg.Store.Snapshot != "" {
		go func() {
			err := dataset.Watch(ctx, cfg.Store.Snapshot, logger, func(ds *dataset.Dataset) {
				st.Memory.Replace(ds)
				if cache != nil {
					if err := cache.Clear(context.Background()); err != nil {
						logger.Warn("Failed to clear cache after reload", zap.Error(err))
					}
				}
			})
			if err != nil {
				logger.Error("Snapshot watcher stopped", zap.Error(err))
			}
		}()
	}

	offerService := services.NewOfferService(st, cfg.Offers.Timeout, logger)
	addressService := services.NewAddressService(parser.NewAddressParser(index, logger), offerService, cache, logger)
	ctrl := routes.Controllers{
		Locality: controllers.NewLocalityController(services.NewLocalityService(index, st, cache, suggester, logger), logger),
		Address:  controllers.NewAddressController(addressService, logger),
		Offers:   controllers.NewOfferController(offerService, logger),
		Admin:    controllers.NewAdminController(services.NewAdminService(st, cache, health, logger), logger),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, ctrl, cfg.App.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
