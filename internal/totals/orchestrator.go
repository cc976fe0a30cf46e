// Package totals computes the checkout breakdown shared by carts and buy-now.
package totals

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/pricing"
	"github.com/angelmondragon/storefront-pricing/internal/shipping"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"github.com/angelmondragon/storefront-pricing/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productSource interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

type dealSource interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Deal, error)
}

type couponPricer interface {
	Apply(ctx context.Context, coupon *models.Coupon, subtotal decimal.Decimal, userID uuid.UUID, held bool) (coupons.Result, error)
}

type zoneSource interface {
	FindByRegion(ctx context.Context, region string) (*models.ShippingZone, error)
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	Products   productSource
	Deals      dealSource
	Coupons    couponPricer
	Zones      zoneSource
	Calculator *shipping.Calculator
	Metrics    *metrics.PricingMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

// Orchestrator runs one pricing pass over a set of line references.
type Orchestrator struct {
	products   productSource
	deals      dealSource
	coupons    couponPricer
	zones      zoneSource
	calculator *shipping.Calculator
	metrics    *metrics.PricingMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewOrchestrator validates deps and builds an orchestrator.
func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	if deps.Products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if deps.Deals == nil {
		return nil, fmt.Errorf("deal source required")
	}
	if deps.Coupons == nil {
		return nil, fmt.Errorf("coupon pricer required")
	}
	if deps.Zones == nil {
		return nil, fmt.Errorf("zone source required")
	}
	if deps.Calculator == nil {
		return nil, fmt.Errorf("shipping calculator required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		products:   deps.Products,
		deals:      deps.Deals,
		coupons:    deps.Coupons,
		zones:      deps.Zones,
		calculator: deps.Calculator,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
		now:        now,
	}, nil
}

// Compute prices every line, applies the coupon against the subtotal, adds
// shipping and COD fees on the discounted subtotal and clamps the final total
// at zero. Any line that cannot be priced fails the whole pass; a coupon that
// fails validation is dropped and reported on the breakdown instead.
func (o *Orchestrator) Compute(ctx context.Context, req Request) (*Breakdown, error) {
	started := time.Now()
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	now := o.now().UTC()

	products, err := o.products.FindByIDs(ctx, lineProductIDs(req.Lines))
	if err != nil {
		return nil, err
	}
	activeDeals, err := o.deals.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	out := &Breakdown{
		Lines:          make([]PricedLine, 0, len(req.Lines)),
		Subtotal:       decimal.Zero,
		Discount:       decimal.Zero,
		ShippingFee:    decimal.Zero,
		CODFee:         decimal.Zero,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		Region:         req.Region,
		ComputedAt:     now,
	}

	for _, line := range req.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"productId": line.ProductID.String()})
		}
		variantID := ""
		if line.VariantID != nil {
			variantID = *line.VariantID
		}
		res, err := pricing.Resolve(product, variantID, activeDeals, now)
		if err != nil {
			return nil, err
		}
		lineTotal := res.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		out.Subtotal = out.Subtotal.Add(lineTotal)
		out.Lines = append(out.Lines, PricedLine{
			ProductID:     line.ProductID,
			Product:       product,
			Quantity:      line.Quantity,
			VariantID:     line.VariantID,
			Variant:       res.Variant,
			UnitPrice:     res.UnitPrice,
			OriginalPrice: res.OriginalPrice,
			DealPrice:     res.DealPrice,
			AppliedDealID: res.AppliedDealID,
			Image:         res.Image,
			LineTotal:     lineTotal,
		})
	}
	out.Subtotal = out.Subtotal.Round(2)

	if req.Coupon != nil {
		result, err := o.coupons.Apply(ctx, req.Coupon, out.Subtotal, req.UserID, req.CouponHeld)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			out.Coupon = req.Coupon
			out.Discount = result.Discount
		} else {
			reason := result.Reason
			out.CouponRejection = &reason
			o.logDetached(ctx, req, reason.String())
		}
	}

	if len(req.Lines) > 0 {
		zone, err := o.zones.FindByRegion(ctx, req.Region)
		if err != nil {
			return nil, err
		}
		fees := o.calculator.Compute(req.ShippingMethod, zone, out.Subtotal.Sub(out.Discount), req.PaymentMethod)
		out.ShippingFee = fees.ShippingFee
		out.CODFee = fees.CODFee
	}

	final := out.Subtotal.Sub(out.Discount).Add(out.ShippingFee).Add(out.CODFee)
	if final.IsNegative() {
		final = decimal.Zero
	}
	out.FinalTotal = final.Round(2)

	o.metrics.ObserveTotals(req.Context, time.Since(started))
	return out, nil
}

func (o *Orchestrator) logDetached(ctx context.Context, req Request, reason string) {
	if o.logg == nil {
		return
	}
	ctx = o.logg.WithFields(ctx, map[string]any{
		"checkout_kind": req.Context,
		"coupon_code":   req.Coupon.Code,
		"reason":        reason,
	})
	o.logg.Warn(ctx, "coupon detached during totals computation")
}

func validateRequest(req Request) error {
	if !req.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	if !req.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
	}
	return nil
}

func lineProductIDs(lines []Line) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
