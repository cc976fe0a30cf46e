package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-pricing/internal/buynow"
	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/cron"
	"github.com/angelmondragon/storefront-pricing/internal/deals"
	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/db"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/angelmondragon/storefront-pricing/pkg/metrics"
	"github.com/angelmondragon/storefront-pricing/pkg/migrate"
	"github.com/angelmondragon/storefront-pricing/pkg/redis"
)

const serviceName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
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

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), metrics.NewPricingMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	dealJob, err := cron.NewDealActivationJob(cron.DealActivationJobParams{
		Logger:     logg,
		Repository: deals.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deal activation job", err)
		os.Exit(1)
	}
	cleanupJob, err := cron.NewBuyNowCleanupJob(cron.BuyNowCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: buynow.NewRepository(dbClient.DB()),
		Coupons:    couponService,
		TTL:        cfg.Cron.BuyNowTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create buy now cleanup job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(serviceName, lockScope(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   cron.NewRegistry(
			cron.Schedule{Job: dealJob, Every: cfg.Cron.DealSyncEvery},
			cron.Schedule{Job: cleanupJob, Every: cfg.Cron.BuyNowCleanupEvery},
		),
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockScope(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
