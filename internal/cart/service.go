package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-pricing/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/pricing"
	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/internal/variants"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes cart operations. Every call returns the freshly computed view.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput) (*View, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, variantID *string) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) (*View, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error)
	SetShippingMethod(ctx context.Context, userID uuid.UUID, input ShippingInput) (*View, error)
	SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error)
}

// View pairs the persisted cart with the breakdown computed for it.
type View struct {
	Cart      *models.Cart
	Breakdown *totals.Breakdown
}

// AddItemInput is one add-to-cart request. Region seeds a newly created cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	VariantID *string
	Region    string
}

// UpdateItemInput sets the quantity of a line. Without VariantID the first
// line for the product is updated.
type UpdateItemInput struct {
	Quantity  int
	VariantID *string
}

// ShippingInput selects the delivery method and, optionally, the region.
type ShippingInput struct {
	Method enums.ShippingMethod
	Region string
}

type service struct {
	repo          CartRepository
	tx            txRunner
	products      productLoader
	coupons       couponManager
	totals        totalsComputer
	logg          *logger.Logger
	defaultRegion string
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, coupons couponManager, pricer totalsComputer, logg *logger.Logger, defaultRegion string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
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

// Get returns the user's cart. A user without a cart gets an empty, unsaved one.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.emptyView(ctx, s.newCart(userID, ""))
	}
	return s.recompute(ctx, cart, false)
}

// AddItem adds qty of a product, merging into an existing line for the same
// variant. The cart is created on first add.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	isNew := cart == nil
	if isNew {
		cart = s.newCart(userID, input.Region)
	}

	sel, err := helpers.ValidateLine(product, input.VariantID, input.Quantity)
	if err != nil {
		return nil, err
	}
	if existing := helpers.QuantityFor(cart.Items, product.ID, sel.VariantID); existing > 0 {
		if err := pricing.CheckStock(product, sel.Variant, existing+input.Quantity); err != nil {
			return nil, err
		}
	}

	if idx := helpers.FindCartItem(cart.Items, product.ID, sel.VariantID); idx >= 0 {
		cart.Items[idx].Quantity += input.Quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Quantity:  input.Quantity,
			VariantID: sel.VariantID,
		})
	}
	return s.recompute(ctx, cart, isNew)
}

// UpdateItem sets the quantity of an existing line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := helpers.FindFirstCartItem(cart.Items, productID)
	if input.VariantID != nil && strings.TrimSpace(*input.VariantID) != "" {
		canonical, err := variants.Canonicalize(product.Variants, *input.VariantID)
		if err != nil {
			return nil, err
		}
		idx = helpers.FindCartItem(cart.Items, productID, &canonical)
	}
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	if _, err := helpers.ValidateLine(product, cart.Items[idx].VariantID, input.Quantity); err != nil {
		return nil, err
	}

	cart.Items[idx].Quantity = input.Quantity
	return s.recompute(ctx, cart, false)
}

// RemoveItem drops the line for (productID, variantID); without a variant
// the first line for the product is removed.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, variantID *string) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := helpers.FindFirstCartItem(cart.Items, productID)
	if variantID != nil && strings.TrimSpace(*variantID) != "" {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		canonical, err := variants.Canonicalize(product.Variants, *variantID)
		if err != nil {
			return nil, err
		}
		idx = helpers.FindCartItem(cart.Items, productID, &canonical)
	}
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	cart.Items = append(cart.Items[:idx:idx], cart.Items[idx+1:]...)
	return s.recompute(ctx, cart, false)
}

// Clear deletes the cart and gives back its coupon redemption.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.emptyView(ctx, s.newCart(userID, ""))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, cart.ID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if cart.CouponID != nil {
		s.release(ctx, *cart.CouponID, userID)
	}
	return s.emptyView(ctx, s.newCart(userID, cart.Region))
}

// ApplyCoupon validates code against the current cart, takes a redemption and
// attaches it, replacing any coupon already on the cart.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	coupon, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if cart.CouponID != nil && *cart.CouponID == coupon.ID {
		return s.recompute(ctx, cart, false)
	}

	breakdown, err := s.totals.Compute(ctx, s.request(cart, coupon, false))
	if err != nil {
		return nil, err
	}
	if breakdown.CouponDetached() {
		return nil, coupons.RejectionError(*breakdown.CouponRejection)
	}
	if err := s.coupons.Redeem(ctx, coupon.ID, userID); err != nil {
		return nil, err
	}

	previous := cart.CouponID
	cart.CouponID = &coupon.ID
	if err := s.save(ctx, cart, breakdown, false); err != nil {
		s.release(ctx, coupon.ID, userID)
		return nil, err
	}
	if previous != nil {
		s.release(ctx, *previous, userID)
	}
	return &View{Cart: cart, Breakdown: breakdown}, nil
}

// RemoveCoupon detaches the cart's coupon and releases its redemption.
func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := cart.CouponID
	if previous == nil {
		return s.recompute(ctx, cart, false)
	}

	cart.CouponID = nil
	breakdown, err := s.totals.Compute(ctx, s.request(cart, nil, false))
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, cart, breakdown, false); err != nil {
		return nil, err
	}
	s.release(ctx, *previous, userID)
	return &View{Cart: cart, Breakdown: breakdown}, nil
}

// SetShippingMethod switches delivery speed and optionally the region.
func (s *service) SetShippingMethod(ctx context.Context, userID uuid.UUID, input ShippingInput) (*View, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method must be standard or express")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.ShippingMethod = input.Method
	if strings.TrimSpace(input.Region) != "" {
		cart.Region = helpers.NormalizeRegion(input.Region, s.defaultRegion)
	}
	return s.recompute(ctx, cart, false)
}

// SetPaymentMethod switches between card and cash on delivery.
func (s *service) SetPaymentMethod(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*View, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be card or cod")
	}
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.PaymentMethod = method
	return s.recompute(ctx, cart, false)
}

// recompute prices the cart with its attached coupon, persists lines and
// snapshot, and releases the coupon if it no longer validates.
func (s *service) recompute(ctx context.Context, cart *models.Cart, isNew bool) (*View, error) {
	coupon, err := s.attachedCoupon(ctx, cart)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.totals.Compute(ctx, s.request(cart, coupon, coupon != nil))
	if err != nil {
		return nil, err
	}

	var detached *uuid.UUID
	if breakdown.CouponDetached() {
		detached = cart.CouponID
	}
	if err := s.save(ctx, cart, breakdown, isNew); err != nil {
		return nil, err
	}
	if detached != nil {
		s.release(ctx, *detached, cart.UserID)
	}
	return &View{Cart: cart, Breakdown: breakdown}, nil
}

func (s *service) save(ctx context.Context, cart *models.Cart, breakdown *totals.Breakdown, isNew bool) error {
	if cart.Status != "" && !cart.Status.Editable() {
		return pkgerrors.New(pkgerrors.CodeConflict, "cart is no longer editable")
	}
	cart.Totals = breakdown.Snapshot()
	if breakdown.CouponDetached() {
		cart.CouponID = nil
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if isNew {
			if err := repo.Create(ctx, cart); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, cart); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, cart.ID, cart.Items)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) request(cart *models.Cart, coupon *models.Coupon, held bool) totals.Request {
	return totals.Request{
		Context:        totals.ContextCart,
		UserID:         cart.UserID,
		Lines:          helpers.LinesFromCartItems(cart.Items),
		Coupon:         coupon,
		CouponHeld:     held,
		ShippingMethod: cart.ShippingMethod,
		PaymentMethod:  cart.PaymentMethod,
		Region:         cart.Region,
	}
}

// attachedCoupon loads the cart's coupon. A coupon deleted since it was
// applied is dropped from the cart.
func (s *service) attachedCoupon(ctx context.Context, cart *models.Cart) (*models.Coupon, error) {
	if cart.CouponID == nil {
		return nil, nil
	}
	coupon, err := s.coupons.Get(ctx, *cart.CouponID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			cart.CouponID = nil
			return nil, nil
		}
		return nil, err
	}
	return coupon, nil
}

func (s *service) release(ctx context.Context, couponID, userID uuid.UUID) {
	if err := s.coupons.Release(ctx, couponID, userID); err != nil && s.logg != nil {
		ctx = s.logg.WithCheckout(ctx, "cart", userID.String())
		ctx = s.logg.WithField(ctx, "coupon_id", couponID.String())
		s.logg.Error(ctx, "failed to release coupon redemption", err)
	}
}

func (s *service) emptyView(ctx context.Context, cart *models.Cart) (*View, error) {
	breakdown, err := s.totals.Compute(ctx, s.request(cart, nil, false))
	if err != nil {
		return nil, err
	}
	cart.Totals = breakdown.Snapshot()
	return &View{Cart: cart, Breakdown: breakdown}, nil
}

func (s *service) newCart(userID uuid.UUID, region string) *models.Cart {
	return &models.Cart{
		UserID:         userID,
		Status:         enums.CartStatusActive,
		ShippingMethod: enums.ShippingMethodStandard,
		PaymentMethod:  enums.PaymentMethodCard,
		Region:         helpers.NormalizeRegion(region, s.defaultRegion),
	}
}

func (s *service) findCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) requireCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return cart, nil
}
