package totals

import (
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Checkout contexts, used as metric and log labels.
const (
	ContextCart   = "cart"
	ContextBuyNow = "buy_now"
)

// Line is a persisted line reference: product, quantity, optional variant.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	VariantID *string
}

// Request is everything one totals pass needs.
type Request struct {
	Context        string
	UserID         uuid.UUID
	Lines          []Line
	Coupon         *models.Coupon
	CouponHeld     bool
	ShippingMethod enums.ShippingMethod
	PaymentMethod  enums.PaymentMethod
	Region         string
}

// PricedLine is the response-time projection of one line. It is never persisted.
type PricedLine struct {
	ProductID     uuid.UUID
	Product       *models.Product
	Quantity      int
	VariantID     *string
	Variant       *models.ProductVariant
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
	DealPrice     *decimal.Decimal
	AppliedDealID *uuid.UUID
	Image         *string
	LineTotal     decimal.Decimal
}

// Breakdown is the outcome of one totals pass. Coupon is nil when none was
// requested or when the requested coupon was rejected; CouponRejection then
// says why.
type Breakdown struct {
	Lines           []PricedLine
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	ShippingFee     decimal.Decimal
	CODFee          decimal.Decimal
	FinalTotal      decimal.Decimal
	Coupon          *models.Coupon
	CouponRejection *enums.CouponRejection
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	Region          string
	ComputedAt      time.Time
}

// Snapshot returns the cached money fields written back onto the owning row.
func (b *Breakdown) Snapshot() models.TotalsSnapshot {
	return models.TotalsSnapshot{
		Subtotal:    b.Subtotal,
		Discount:    b.Discount,
		ShippingFee: b.ShippingFee,
		CODFee:      b.CODFee,
		FinalTotal:  b.FinalTotal,
	}
}

// CouponDetached reports whether a requested coupon was dropped as invalid.
func (b *Breakdown) CouponDetached() bool {
	return b.CouponRejection != nil
}
