package coupons

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func percentCoupon(value string) *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE",
		DiscountType:  enums.CouponDiscountPercentage,
		DiscountValue: dec(value),
	}
}

func TestEvaluateRejectionOrder(t *testing.T) {
	t.Parallel()

	// Every check fails; the first in order must be reported.
	coupon := percentCoupon("10")
	coupon.ExpiryDate = timePtr(now.Add(-time.Hour))
	coupon.StartDate = timePtr(now.Add(time.Hour))
	coupon.MinCartValue = decPtr("1000")
	coupon.UsageLimit = intPtr(1)
	coupon.UsedCount = 1
	coupon.PerUserLimit = intPtr(1)
	usage := Usage{UserCount: 1}

	steps := []enums.CouponRejection{
		enums.CouponRejectionExpired,
		enums.CouponRejectionNotStarted,
		enums.CouponRejectionBelowMinimum,
		enums.CouponRejectionUsageLimitReached,
		enums.CouponRejectionPerUserLimit,
	}
	fixes := []func(){
		func() { coupon.ExpiryDate = nil },
		func() { coupon.StartDate = nil },
		func() { coupon.MinCartValue = nil },
		func() { coupon.UsageLimit = nil },
		func() { coupon.PerUserLimit = nil },
	}

	for i, want := range steps {
		got := Evaluate(coupon, dec("800"), usage, now)
		if got.Valid || got.Reason != want {
			t.Fatalf("step %d: expected %s, got valid=%v reason=%s", i, want, got.Valid, got.Reason)
		}
		if !got.Discount.IsZero() {
			t.Fatalf("rejected coupon must carry zero discount")
		}
		fixes[i]()
	}

	if got := Evaluate(coupon, dec("800"), usage, now); !got.Valid {
		t.Fatalf("expected coupon valid once every check passes, got %s", got.Reason)
	}
}

func TestEvaluateBelowMinimumScenario(t *testing.T) {
	t.Parallel()

	coupon := percentCoupon("10")
	coupon.MinCartValue = decPtr("1000")

	got := Evaluate(coupon, dec("800"), Usage{}, now)
	if got.Valid || got.Reason != enums.CouponRejectionBelowMinimum {
		t.Fatalf("expected below minimum rejection, got %+v", got)
	}
}

func TestEvaluatePercentageCappedByMaxDiscount(t *testing.T) {
	t.Parallel()

	coupon := percentCoupon("20")
	coupon.MaxDiscount = decPtr("150")

	got := Evaluate(coupon, dec("1000"), Usage{}, now)
	if !got.Valid || !got.Discount.Equal(dec("150")) {
		t.Fatalf("expected capped discount 150, got %+v", got)
	}

	got = Evaluate(coupon, dec("500"), Usage{}, now)
	if !got.Discount.Equal(dec("100")) {
		t.Fatalf("expected uncapped discount 100, got %s", got.Discount)
	}
}

func TestEvaluateFixedNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{DiscountType: enums.CouponDiscountFixed, DiscountValue: dec("300")}

	if got := Evaluate(coupon, dec("1000"), Usage{}, now); !got.Discount.Equal(dec("300")) {
		t.Fatalf("expected 300, got %s", got.Discount)
	}
	if got := Evaluate(coupon, dec("120.50"), Usage{}, now); !got.Discount.Equal(dec("120.50")) {
		t.Fatalf("expected discount clamped to subtotal, got %s", got.Discount)
	}
}

func TestEvaluateDiscountBounds(t *testing.T) {
	t.Parallel()

	coupons := []*models.Coupon{
		percentCoupon("150"),
		percentCoupon("0"),
		percentCoupon("-5"),
		{DiscountType: enums.CouponDiscountFixed, DiscountValue: dec("99999")},
	}
	subtotals := []string{"0", "0.01", "49.99", "1000"}
	for _, c := range coupons {
		for _, raw := range subtotals {
			subtotal := dec(raw)
			got := Evaluate(c, subtotal, Usage{}, now)
			if got.Discount.IsNegative() || got.Discount.GreaterThan(subtotal) {
				t.Fatalf("discount %s out of [0, %s] for %s %s", got.Discount, subtotal, c.DiscountType, c.DiscountValue)
			}
		}
	}
}

func TestEvaluateHeldRedemptionDoesNotCountAgainstLimits(t *testing.T) {
	t.Parallel()

	coupon := percentCoupon("10")
	coupon.UsageLimit = intPtr(1)
	coupon.UsedCount = 1
	coupon.PerUserLimit = intPtr(1)

	if got := Evaluate(coupon, dec("100"), Usage{UserCount: 1, Held: true}, now); !got.Valid {
		t.Fatalf("holder of the only redemption must still see the coupon as valid, got %s", got.Reason)
	}
	if got := Evaluate(coupon, dec("100"), Usage{UserCount: 0}, now); got.Valid {
		t.Fatal("another shopper must see the usage limit")
	}
}

func TestRejectionErrorCarriesReason(t *testing.T) {
	t.Parallel()

	typed := pkgerrors.As(RejectionError(enums.CouponRejectionExpired))
	if typed == nil || typed.Code() != pkgerrors.CodeDomain {
		t.Fatalf("expected domain error, got %v", typed)
	}
	if typed.Message() != "coupon has expired" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	details, _ := typed.Details().(map[string]any)
	if details["reason"] != "coupon_expired" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}
