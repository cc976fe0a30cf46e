// Package coupons validates, prices and counts store coupon redemptions.
package coupons

import (
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Usage is the redemption state seen by the evaluating user. Held means the
// caller already owns one redemption, counted in both UsedCount and UserCount.
type Usage struct {
	UserCount int
	Held      bool
}

// Result is the outcome of evaluating a coupon against a subtotal.
type Result struct {
	Valid    bool
	Discount decimal.Decimal
	Reason   enums.CouponRejection
}

// Evaluate checks, in order: expiry, start date, minimum cart value, global
// usage limit, per-user limit. The first failure rejects the coupon.
func Evaluate(coupon *models.Coupon, subtotal decimal.Decimal, usage Usage, now time.Time) Result {
	if reason, ok := check(coupon, subtotal, usage, now); !ok {
		return Result{Valid: false, Discount: decimal.Zero, Reason: reason}
	}
	return Result{Valid: true, Discount: discount(coupon, subtotal)}
}

func check(coupon *models.Coupon, subtotal decimal.Decimal, usage Usage, now time.Time) (enums.CouponRejection, bool) {
	if coupon.ExpiryDate != nil && now.After(*coupon.ExpiryDate) {
		return enums.CouponRejectionExpired, false
	}
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return enums.CouponRejectionNotStarted, false
	}
	if coupon.MinCartValue != nil && subtotal.LessThan(*coupon.MinCartValue) {
		return enums.CouponRejectionBelowMinimum, false
	}

	used, mine := coupon.UsedCount, usage.UserCount
	if usage.Held {
		used--
		mine--
	}
	if coupon.UsageLimit != nil && used >= *coupon.UsageLimit {
		return enums.CouponRejectionUsageLimitReached, false
	}
	if coupon.PerUserLimit != nil && mine >= *coupon.PerUserLimit {
		return enums.CouponRejectionPerUserLimit, false
	}
	return "", true
}

// discount never exceeds the subtotal and is never negative.
func discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || coupon.DiscountValue.IsNegative() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch coupon.DiscountType {
	case enums.CouponDiscountPercentage:
		amount = subtotal.Mul(coupon.DiscountValue).Div(hundred)
		if coupon.MaxDiscount != nil && amount.GreaterThan(*coupon.MaxDiscount) {
			amount = *coupon.MaxDiscount
		}
	case enums.CouponDiscountFixed:
		amount = coupon.DiscountValue
	default:
		return decimal.Zero
	}
	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(moneyPlaces)
}

// RejectionError is the shopper-facing error for a rejected coupon.
func RejectionError(reason enums.CouponRejection) error {
	return pkgerrors.Domainf(reason.String(), "%s", reason.Message())
}
