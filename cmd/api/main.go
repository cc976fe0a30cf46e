package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-pricing/api/routes"
	"github.com/angelmondragon/storefront-pricing/internal/buynow"
	"github.com/angelmondragon/storefront-pricing/internal/cart"
	"github.com/angelmondragon/storefront-pricing/internal/catalog"
	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/deals"
	"github.com/angelmondragon/storefront-pricing/internal/shipping"
	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/db"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/angelmondragon/storefront-pricing/pkg/metrics"
	"github.com/angelmondragon/storefront-pricing/pkg/migrate"
	"github.com/angelmondragon/storefront-pricing/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	products := catalog.NewRepository(dbClient.DB())
	zones, err := shipping.NewRepository(dbClient.DB(), cfg.Shipping)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping repository", err)
		os.Exit(1)
	}
	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	orchestrator, err := totals.NewOrchestrator(totals.Deps{
		Products:   products,
		Deals:      deals.NewRepository(dbClient.DB()),
		Coupons:    couponService,
		Zones:      zones,
		Calculator: shipping.NewCalculator(cfg.Pricing.CODFeeAmount()),
		Metrics:    pricingMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create totals orchestrator", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, products, couponService, orchestrator, logg, cfg.Pricing.DefaultRegion)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	buyNowService, err := buynow.NewService(buynow.NewRepository(dbClient.DB()), dbClient, products, couponService, orchestrator, logg, cfg.Pricing.DefaultRegion)
	if err != nil {
		logg.Error(context.Background(), "failed to create buy now service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, cartService, buyNowService),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
