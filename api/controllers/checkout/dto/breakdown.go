package checkoutdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

// Breakdown is the priced view returned by every cart and buy-now endpoint.
// Money fields serialize as decimal strings with two places.
type Breakdown struct {
	Items           []Line                 `json:"items"`
	Subtotal        Money                  `json:"subtotal"`
	Discount        Money                  `json:"discount"`
	ShippingFee     Money                  `json:"shippingFee"`
	CODFee          Money                  `json:"codFee"`
	FinalTotal      Money                  `json:"finalTotal"`
	Coupon          *AppliedCoupon         `json:"coupon,omitempty"`
	CouponRejection *enums.CouponRejection `json:"couponRejection,omitempty"`
	ShippingMethod  enums.ShippingMethod   `json:"shippingMethod"`
	PaymentMethod   enums.PaymentMethod    `json:"paymentMethod"`
	Region          string                 `json:"region"`
	Currency        string                 `json:"currency,omitempty"`
	ComputedAt      time.Time              `json:"computedAt"`
}

// Line is the response-time projection of one line.
type Line struct {
	ProductID     uuid.UUID  `json:"productId"`
	Name          string     `json:"name"`
	Quantity      int        `json:"quantity"`
	VariantID     *string    `json:"variantId,omitempty"`
	SKU           *string    `json:"sku,omitempty"`
	Image         *string    `json:"image,omitempty"`
	UnitPrice     Money      `json:"unitPrice"`
	OriginalPrice Money      `json:"originalPrice"`
	DealPrice     *Money     `json:"dealPrice,omitempty"`
	AppliedDealID *uuid.UUID `json:"appliedDealId,omitempty"`
	LineTotal     Money      `json:"lineTotal"`
}

// AppliedCoupon names the coupon that priced the breakdown.
type AppliedCoupon struct {
	ID           uuid.UUID                `json:"id"`
	Code         string                   `json:"code"`
	DiscountType enums.CouponDiscountType `json:"discountType"`
}

// NewBreakdown projects a totals pass. A nil breakdown yields nil.
func NewBreakdown(b *totals.Breakdown, currency string) *Breakdown {
	if b == nil {
		return nil
	}
	out := &Breakdown{
		Items:           make([]Line, 0, len(b.Lines)),
		Subtotal:        Money(b.Subtotal),
		Discount:        Money(b.Discount),
		ShippingFee:     Money(b.ShippingFee),
		CODFee:          Money(b.CODFee),
		FinalTotal:      Money(b.FinalTotal),
		CouponRejection: b.CouponRejection,
		ShippingMethod:  b.ShippingMethod,
		PaymentMethod:   b.PaymentMethod,
		Region:          b.Region,
		Currency:        currency,
		ComputedAt:      b.ComputedAt,
	}
	if b.Coupon != nil {
		out.Coupon = &AppliedCoupon{
			ID:           b.Coupon.ID,
			Code:         b.Coupon.Code,
			DiscountType: b.Coupon.DiscountType,
		}
	}
	for _, line := range b.Lines {
		item := Line{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			VariantID:     line.VariantID,
			Image:         line.Image,
			UnitPrice:     Money(line.UnitPrice),
			OriginalPrice: Money(line.OriginalPrice),
			DealPrice:     moneyPtr(line.DealPrice),
			AppliedDealID: line.AppliedDealID,
			LineTotal:     Money(line.LineTotal),
		}
		if line.Product != nil {
			item.Name = line.Product.Name
		}
		if line.Variant != nil && line.Variant.SKU != "" {
			sku := line.Variant.SKU
			item.SKU = &sku
		}
		out.Items = append(out.Items, item)
	}
	return out
}
