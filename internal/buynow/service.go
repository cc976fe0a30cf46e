// Package buynow runs the single-line express checkout through the same totals
// pipeline as carts.
package buynow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-pricing/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes buy-now operations.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID, input StartInput) (*View, error)
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error)
	SetShippingMethod(ctx context.Context, userID uuid.UUID, method enums.ShippingMethod, region string) (*View, error)
	SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error)
}

// View pairs the persisted session with the breakdown computed for it.
type View struct {
	Session   *models.BuyNow
	Breakdown *totals.Breakdown
}

// StartInput opens a buy-now session. Empty methods default to standard/card.
type StartInput struct {
	ProductID      uuid.UUID
	Quantity       int
	VariantID      *string
	ShippingMethod enums.ShippingMethod
	PaymentMethod  enums.PaymentMethod
	Region         string
}

type service struct {
	repo          SessionRepository
	tx            txRunner
	products      productLoader
	coupons       couponManager
	totals        totalsComputer
	logg          *logger.Logger
	defaultRegion string
}

// NewService builds a buy-now service backed by the provided stack.
func NewService(repo SessionRepository, tx txRunner, products productLoader, coupons couponManager, pricer totalsComputer, logg *logger.Logger, defaultRegion string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("buy now repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon manager required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("totals computer required")
	}
	return &service{
		repo:          repo,
		tx:            tx,
		products:      products,
		coupons:       coupons,
		totals:        pricer,
		logg:          logg,
		defaultRegion: helpers.NormalizeRegion(defaultRegion, "default"),
	}, nil
}

// Start replaces any previous session for the user with a new single line.
// A coupon held by the replaced session is released.
func (s *service) Start(ctx context.Context, userID uuid.UUID, input StartInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	shipping := input.ShippingMethod
	if shipping == "" {
		shipping = enums.ShippingMethodStandard
	}
	payment := input.PaymentMethod
	if payment == "" {
		payment = enums.PaymentMethodCard
	}
	if !shipping.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method must be standard or express")
	}
	if !payment.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be card or cod")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	sel, err := helpers.ValidateLine(product, input.VariantID, input.Quantity)
	if err != nil {
		return nil, err
	}

	previous, err := s.findSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &models.BuyNow{
		UserID:         userID,
		ProductID:      product.ID,
		Quantity:       sel.Quantity,
		VariantID:      sel.VariantID,
		ShippingMethod: shipping,
		PaymentMethod:  payment,
		Region:         helpers.NormalizeRegion(input.Region, s.defaultRegion),
	}
	breakdown, err := s.totals.Compute(ctx, s.request(session, nil, false))
	if err != nil {
		return nil, err
	}
	session.Totals = breakdown.Snapshot()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return repo.Create(ctx, session)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start buy now")
	}
	if previous != nil && previous.CouponID != nil {
		s.release(ctx, *previous.CouponID, userID)
	}
	return &View{Session: session, Breakdown: breakdown}, nil
}

// Get recomputes and returns the user's session.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, session)
}

// Clear deletes the session and gives back its coupon redemption.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteByUser(ctx, userID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear buy now")
	}
	if session.CouponID != nil {
		s.release(ctx, *session.CouponID, userID)
	}
	return nil
}

// ApplyCoupon validates code against the session, takes a redemption and
// attaches it, replacing any coupon already applied.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if session.CouponID != nil && *session.CouponID == coupon.ID {
		return s.recompute(ctx, session)
	}

	breakdown, err := s.totals.Compute(ctx, s.request(session, coupon, false))
	if err != nil {
		return nil, err
	}
	if breakdown.CouponDetached() {
		return nil, coupons.RejectionError(*breakdown.CouponRejection)
	}
	if err := s.coupons.Redeem(ctx, coupon.ID, userID); err != nil {
		return nil, err
	}

	previous := session.CouponID
	session.CouponID = &coupon.ID
	if err := s.save(ctx, session, breakdown); err != nil {
		s.release(ctx, coupon.ID, userID)
		return nil, err
	}
	if previous != nil {
		s.release(ctx, *previous, userID)
	}
	return &View{Session: session, Breakdown: breakdown}, nil
}

// RemoveCoupon detaches the session's coupon and releases its redemption.
func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error) {
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := session.CouponID
	if previous == nil {
		return s.recompute(ctx, session)
	}
	session.CouponID = nil
	breakdown, err := s.totals.Compute(ctx, s.request(session, nil, false))
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, session, breakdown); err != nil {
		return nil, err
	}
	s.release(ctx, *previous, userID)
	return &View{Session: session, Breakdown: breakdown}, nil
}

// SetShippingMethod switches delivery speed and optionally the region.
func (s *service) SetShippingMethod(ctx context.Context, userID uuid.UUID, method enums.ShippingMethod, region string) (*View, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method must be standard or express")
	}
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.ShippingMethod = method
	if strings.TrimSpace(region) != "" {
		session.Region = helpers.NormalizeRegion(region, s.defaultRegion)
	}
	return s.recompute(ctx, session)
}

// SetPaymentMethod switches between card and cash on delivery.
func (s *service) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be card or cod")
	}
	session, err := s.requireSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.PaymentMethod = method
	return s.recompute(ctx, session)
}

func (s *service) recompute(ctx context.Context, session *models.BuyNow) (*View, error) {
	coupon, err := s.attachedCoupon(ctx, session)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.totals.Compute(ctx, s.request(session, coupon, coupon != nil))
	if err != nil {
		return nil, err
	}
	var detached *uuid.UUID
	if breakdown.CouponDetached() {
		detached = session.CouponID
	}
	if err := s.save(ctx, session, breakdown); err != nil {
		return nil, err
	}
	if detached != nil {
		s.release(ctx, *detached, session.UserID)
	}
	return &View{Session: session, Breakdown: breakdown}, nil
}

func (s *service) save(ctx context.Context, session *models.BuyNow, breakdown *totals.Breakdown) error {
	session.Totals = breakdown.Snapshot()
	if breakdown.CouponDetached() {
		session.CouponID = nil
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, session)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save buy now")
	}
	return nil
}

func (s *service) request(session *models.BuyNow, coupon *models.Coupon, held bool) totals.Request {
	return totals.Request{
		Context: totals.ContextBuyNow,
		UserID:  session.UserID,
		Lines: []totals.Line{{
			ProductID: session.ProductID,
			Quantity:  session.Quantity,
			VariantID: session.VariantID,
		}},
		Coupon:         coupon,
		CouponHeld:     held,
		ShippingMethod: session.ShippingMethod,
		PaymentMethod:  session.PaymentMethod,
		Region:         session.Region,
	}
}

func (s *service) attachedCoupon(ctx context.Context, session *models.BuyNow) (*models.Coupon, error) {
	if session.CouponID == nil {
		return nil, nil
	}
	coupon, err := s.coupons.Get(ctx, *session.CouponID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			session.CouponID = nil
			return nil, nil
		}
		return nil, err
	}
	return coupon, nil
}

func (s *service) release(ctx context.Context, couponID, userID uuid.UUID) {
	if err := s.coupons.Release(ctx, couponID, userID); err != nil && s.logg != nil {
		ctx = s.logg.WithCheckout(ctx, "buy_now", userID.String())
		ctx = s.logg.WithField(ctx, "coupon_id", couponID.String())
		s.logg.Error(ctx, "failed to release coupon redemption", err)
	}
}

func (s *service) findSession(ctx context.Context, userID uuid.UUID) (*models.BuyNow, error) {
	session, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buy now")
	}
	return session, nil
}

func (s *service) requireSession(ctx context.Context, userID uuid.UUID) (*models.BuyNow, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	session, err := s.findSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy now session not found")
	}
	return session, nil
}
