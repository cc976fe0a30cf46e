package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence surface the coupon service needs.
type Store interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	UserUsage(ctx context.Context, couponID, userID uuid.UUID) (int, error)
	Redeem(ctx context.Context, couponID, userID uuid.UUID) error
	Release(ctx context.Context, couponID, userID uuid.UUID) error
}

// Service prices coupons and keeps their usage counters in step with carts.
type Service struct {
	store   Store
	metrics *metrics.PricingMetrics
	now     func() time.Time
}

// NewService builds a coupon service.
func NewService(store Store, m *metrics.PricingMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("coupon store required")
	}
	return &Service{store: store, metrics: m, now: time.Now}, nil
}

// Lookup finds a coupon by shopper-entered code.
func (s *Service) Lookup(ctx context.Context, code string) (*models.Coupon, error) {
	return s.store.FindByCode(ctx, code)
}

// Get loads a coupon by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	return s.store.FindByID(ctx, id)
}

// Apply evaluates coupon for userID against subtotal. held reports that the
// caller's checkout already owns a redemption of this coupon.
func (s *Service) Apply(ctx context.Context, coupon *models.Coupon, subtotal decimal.Decimal, userID uuid.UUID, held bool) (Result, error) {
	if coupon == nil {
		return Result{}, fmt.Errorf("coupon required")
	}
	count, err := s.store.UserUsage(ctx, coupon.ID, userID)
	if err != nil {
		return Result{}, err
	}
	result := Evaluate(coupon, subtotal, Usage{UserCount: count, Held: held}, s.now())
	if !result.Valid {
		s.metrics.IncCouponRejection(result.Reason.String())
	}
	return result, nil
}

// Redeem takes a usage slot for userID.
func (s *Service) Redeem(ctx context.Context, couponID, userID uuid.UUID) error {
	if err := s.store.Redeem(ctx, couponID, userID); err != nil {
		return err
	}
	s.metrics.IncRedemption("redeem")
	return nil
}

// Release gives back a usage slot taken by Redeem.
func (s *Service) Release(ctx context.Context, couponID, userID uuid.UUID) error {
	if err := s.store.Release(ctx, couponID, userID); err != nil {
		return err
	}
	s.metrics.IncRedemption("release")
	return nil
}
