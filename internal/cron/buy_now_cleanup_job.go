package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	defaultBuyNowTTL     = 24 * time.Hour
	buyNowCleanupBatch   = 200
	buyNowCleanupJobName = "buy-now-cleanup"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleSessionRepo interface {
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]models.BuyNow, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type couponReleaser interface {
	Release(ctx context.Context, couponID, userID uuid.UUID) error
}

// BuyNowCleanupJobParams configure the abandoned buy-now sweep.
type BuyNowCleanupJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository staleSessionRepo
	Coupons    couponReleaser
	TTL        time.Duration
}

// NewBuyNowCleanupJob builds the job that drops buy-now sessions idle for
// longer than TTL and gives back any coupon redemption they held.
func NewBuyNowCleanupJob(params BuyNowCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("buy now repository required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon releaser required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultBuyNowTTL
	}
	return &buyNowCleanupJob{
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repository,
		coupons: params.Coupons,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

type buyNowCleanupJob struct {
	logg    *logger.Logger
	db      txRunner
	repo    staleSessionRepo
	coupons couponReleaser
	ttl     time.Duration
	now     func() time.Time
}

func (j *buyNowCleanupJob) Name() string { return buyNowCleanupJobName }

// Run deletes one batch of stale sessions. Each session is handled on its
// own; failures are collected and reported together.
func (j *buyNowCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.repo.ListStale(ctx, cutoff, buyNowCleanupBatch)
	if err != nil {
		return fmt.Errorf("list stale buy now sessions: %w", err)
	}

	var (
		errs     error
		deleted  int
		released int
	)
	for _, session := range stale {
		if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.repo.DeleteByID(ctx, tx, session.ID)
		}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete session %s: %w", session.ID, err))
			continue
		}
		deleted++
		if session.CouponID == nil {
			continue
		}
		if err := j.coupons.Release(ctx, *session.CouponID, session.UserID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("release coupon %s: %w", *session.CouponID, err))
			continue
		}
		released++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"sessions_found":   len(stale),
		"sessions_deleted": deleted,
		"coupons_released": released,
		"failures":         len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "buy now cleanup complete")
	return errs
}
